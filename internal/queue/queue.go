package queue

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ykhdr/dictcrack/internal/queue/connection"
	"github.com/ykhdr/dictcrack/internal/queue/consumer"
	"github.com/ykhdr/dictcrack/internal/queue/publisher"
)

type Config struct {
	URI              string           `kdl:"uri"`
	Username         string           `kdl:"username"`
	Password         string           `kdl:"password"`
	ReconnectTimeout time.Duration    `kdl:"reconnect-timeout"`
	Publisher        *PublisherConfig `kdl:"publisher"`
	Consumer         *ConsumerConfig  `kdl:"consumer"`
}

// Enabled reports whether a broker is configured at all.
func (c *Config) Enabled() bool {
	return c != nil && c.URI != ""
}

type PublisherConfig struct {
	Exchange   string `kdl:"exchange"`
	RoutingKey string `kdl:"routing-key"`
}

func (p *PublisherConfig) ToPublisherConfig(marshal publisher.Marshal, contentType string) *publisher.Config {
	return &publisher.Config{
		Exchange:    p.Exchange,
		RoutingKey:  p.RoutingKey,
		Marshal:     marshal,
		ContentType: contentType,
	}
}

type ConsumerConfig struct {
	Queue string `kdl:"queue"`
	Tag   string `kdl:"tag"`
}

func (c *ConsumerConfig) ToConsumerConfig(unmarshal consumer.Unmarshal) *consumer.Config {
	return &consumer.Config{
		Unmarshal: unmarshal,
		Queue:     c.Queue,
		Consumer:  c.Tag,
	}
}

func DefaultConfig() *Config {
	return &Config{
		ReconnectTimeout: 5 * time.Second,
		Publisher: &PublisherConfig{
			RoutingKey: "crack.results",
		},
		Consumer: &ConsumerConfig{
			Queue: "crack.tasks",
			Tag:   "dictcrack",
		},
	}
}

func Dial(ctx context.Context, cfg *Config) (*connection.Connection, error) {
	opts := amqp.Config{
		SASL: []amqp.Authentication{
			&amqp.PlainAuth{
				Username: cfg.Username,
				Password: cfg.Password,
			},
		},
	}
	return connection.Dial(ctx, cfg.URI, opts, cfg.ReconnectTimeout)
}
