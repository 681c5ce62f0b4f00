package consumer

import (
	"context"
	"encoding/json"
	"runtime/debug"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/ykhdr/dictcrack/internal/queue/connection"
)

type Unmarshal func(data []byte, v any) error

// Handler processes one decoded message. It owns acknowledging the delivery.
type Handler[T any] func(ctx context.Context, data *T, delivery amqp.Delivery) error

type Config struct {
	Unmarshal Unmarshal
	Queue     string
	Consumer  string
	AutoAck   bool
}

type Consumer interface {
	Subscribe(ctx context.Context)
}

type consumer[T any] struct {
	cfg     *Config
	ch      *connection.Channel
	handler Handler[T]
	l       zerolog.Logger
}

func New[T any](ch *connection.Channel, handler Handler[T], cfg *Config) Consumer {
	if cfg.Unmarshal == nil {
		cfg.Unmarshal = json.Unmarshal
	}
	return &consumer[T]{
		ch:      ch,
		handler: handler,
		cfg:     cfg,
		l: log.With().
			Str("component", "amqp-consumer").
			Type("type", *new(T)).
			Str("queue", cfg.Queue).
			Logger(),
	}
}

// Subscribe blocks, handing deliveries to the handler until ctx is done or the
// channel is closed. Undecodable messages are rejected without requeue.
func (c *consumer[T]) Subscribe(ctx context.Context) {
	deliveries := c.ch.Consume(ctx, c.cfg.Queue, c.cfg.Consumer, c.cfg.AutoAck)
	c.l.Debug().Msg("consumer subscribed")
	for d := range deliveries {
		c.l.Debug().Bytes("body", d.Body).Msg("got new message")
		data := new(T)
		if err := c.cfg.Unmarshal(d.Body, data); err != nil {
			c.l.Error().Err(err).Msg("failed to unmarshal message")
			if !c.cfg.AutoAck {
				_ = d.Reject(false)
			}
			continue
		}
		c.handle(ctx, data, d)
	}
	c.l.Debug().Msg("consumer stopped")
}

func (c *consumer[T]) handle(ctx context.Context, data *T, d amqp.Delivery) {
	defer func() {
		if r := recover(); r != nil {
			c.l.Error().Msgf("catch panic: %v\n%s", r, string(debug.Stack()))
		}
	}()
	if err := c.handler(ctx, data, d); err != nil {
		c.l.Error().Err(err).Msg("failed to handle message")
	}
}
