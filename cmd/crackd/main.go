package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/ykhdr/dictcrack/config"
	"github.com/ykhdr/dictcrack/internal/consul"
	"github.com/ykhdr/dictcrack/internal/dispatcher"
	"github.com/ykhdr/dictcrack/internal/hashcrack"
	"github.com/ykhdr/dictcrack/internal/hashcrack/strategy"
	"github.com/ykhdr/dictcrack/internal/queue"
	"github.com/ykhdr/dictcrack/internal/server/api"
	"github.com/ykhdr/dictcrack/internal/store/mongo"
	"github.com/ykhdr/dictcrack/internal/store/requeststore"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.InitializeDaemonConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msgf("Error initializing config")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	requestStore := requeststore.NewMemoryStore()
	if cfg.MongoDBConfig.Enabled() {
		mongoClient, err := mongo.Connect(ctx, cfg.MongoDBConfig)
		if err != nil {
			log.Fatal().Err(err).Msgf("Error initializing mongo client")
		}
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()
		requestStore = requeststore.NewMongoStore(mongoClient.Database(cfg.MongoDBConfig.Database))
	}

	crackStrategy := strategy.NewStrategy(strategy.ParseStrategyName(cfg.Crack.Strategy), cfg.Crack.StrategyOptions())
	service := hashcrack.NewService(crackStrategy)
	dispatcherSrv := dispatcher.NewDispatcher(cfg.DispatcherConfig, service, requestStore)
	apiSrv := api.NewServer(cfg.ServerConfig, dispatcherSrv, requestStore)

	group, gCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return dispatcherSrv.Start(gCtx)
	})
	group.Go(func() error {
		return apiSrv.Start(gCtx)
	})

	if cfg.AmqpConfig.Enabled() {
		amqpConn, err := queue.Dial(gCtx, cfg.AmqpConfig)
		if err != nil {
			log.Fatal().Err(err).Msgf("Error initializing amqp connection")
		}
		defer func() { _ = amqpConn.Close() }()
		worker := hashcrack.NewQueueWorker(cfg.AmqpConfig, cfg.ServerConfig.WordlistDir, service, requestStore, amqpConn)
		group.Go(func() error {
			return worker.Start(gCtx)
		})
	}

	if cfg.ConsulConfig.Enabled() {
		deregister := register(cfg)
		defer deregister()
	}

	if err = group.Wait(); err != nil {
		log.Error().Err(err).Msgf("Daemon failed")
	}
}

// register announces the api server in consul and returns the matching
// deregistration. Failures are logged and never stop the daemon.
func register(cfg *config.DaemonConfig) func() {
	noop := func() {}
	consulClient, err := consul.NewClient(cfg.ConsulConfig)
	if err != nil {
		log.Warn().Err(err).Msgf("Error initializing consul client")
		return noop
	}
	host, port, err := consul.AdvertiseAddr(cfg.ServerConfig.Addr)
	if err != nil {
		log.Warn().Err(err).Msgf("Error resolving advertised address")
		return noop
	}
	serviceID, err := consulClient.Register(host, port)
	if err != nil {
		log.Warn().Err(err).Msgf("Error registering in consul")
		return noop
	}
	log.Info().Str("service-id", serviceID).Msg("registered in consul")
	return func() {
		if err := consulClient.Deregister(serviceID); err != nil {
			log.Warn().Err(err).Msg("Error deregistering from consul")
		}
	}
}
