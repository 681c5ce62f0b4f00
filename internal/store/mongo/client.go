package mongo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Connect opens a client whose driver logs go through zerolog and checks that the
// primary answers.
func Connect(ctx context.Context, cfg *Config) (*mongo.Client, error) {
	logOpts := options.
		Logger().
		SetSink(newLogger(log.With().Str("component", "mongo").Logger())).
		SetComponentLevel(options.LogComponentCommand, options.LogLevelDebug).
		SetComponentLevel(options.LogComponentConnection, options.LogLevelInfo)
	opts := options.
		Client().
		ApplyURI(cfg.URI).
		SetLoggerOptions(logOpts).
		SetBSONOptions(&options.BSONOptions{NilSliceAsEmpty: true})
	if cfg.Username != "" {
		opts.SetAuth(options.Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})
	}
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, errors.Wrap(err, "connect to mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongodb")
	}
	return client, nil
}
