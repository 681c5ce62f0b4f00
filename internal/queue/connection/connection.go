package connection

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrConnectionClosed = errors.New("amqp connection is already closed")
	ErrChannelClosed    = errors.New("amqp channel is already closed")
)

// Connection is an AMQP connection that redials after the broker drops it.
type Connection struct {
	l    zerolog.Logger
	uri  string
	opts amqp.Config

	m      sync.RWMutex
	conn   *amqp.Connection
	closed atomic.Bool

	redialDelay time.Duration
	cancel      context.CancelFunc
}

func Dial(ctx context.Context, uri string, opts amqp.Config, redialDelay time.Duration) (*Connection, error) {
	c, err := amqp.DialConfig(uri, opts)
	if err != nil {
		return nil, errors.Wrap(err, "dial amqp")
	}
	ctx, cancel := context.WithCancel(ctx)
	conn := &Connection{
		uri:         uri,
		opts:        opts,
		conn:        c,
		cancel:      cancel,
		redialDelay: redialDelay,
		l:           log.With().Str("component", "amqp-connection").Logger(),
	}
	go conn.watch(ctx)
	return conn, nil
}

func (c *Connection) current() *amqp.Connection {
	c.m.RLock()
	defer c.m.RUnlock()
	return c.conn
}

func (c *Connection) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrConnectionClosed
	}
	c.cancel()
	if err := c.current().Close(); err != nil {
		return errors.Wrap(err, "close amqp connection")
	}
	return nil
}

func (c *Connection) watch(ctx context.Context) {
	for {
		notify := c.current().NotifyClose(make(chan *amqp.Error, 1))
		select {
		case <-ctx.Done():
			return
		case err, ok := <-notify:
			if !ok || c.closed.Load() {
				c.l.Debug().Msg("connection watcher stopped")
				return
			}
			c.l.Warn().Err(err).Msg("connection lost, redialing")
			if !c.redial(ctx) {
				return
			}
			c.l.Info().Msg("connection restored")
		}
	}
}

func (c *Connection) redial(ctx context.Context) bool {
	for {
		if c.closed.Load() {
			return false
		}
		conn, err := amqp.DialConfig(c.uri, c.opts)
		if err == nil {
			c.m.Lock()
			c.conn = conn
			c.m.Unlock()
			return true
		}
		c.l.Warn().Err(err).Dur("retry-in", c.redialDelay).Msg("redial failed")
		select {
		case <-ctx.Done():
			return false
		case <-time.After(c.redialDelay):
		}
	}
}

// Channel opens a channel that reopens itself on the current connection when closed
// by the broker.
func (c *Connection) Channel(ctx context.Context) (*Channel, error) {
	amqpCh, err := c.current().Channel()
	if err != nil {
		return nil, errors.Wrap(err, "open amqp channel")
	}
	ctx, cancel := context.WithCancel(ctx)
	ch := &Channel{
		ch:          amqpCh,
		conn:        c,
		redialDelay: c.redialDelay,
		cancel:      cancel,
		l:           log.With().Str("component", "amqp-channel").Logger(),
	}
	go ch.watch(ctx)
	return ch, nil
}

type Channel struct {
	l    zerolog.Logger
	conn *Connection

	m      sync.RWMutex
	ch     *amqp.Channel
	closed atomic.Bool

	redialDelay time.Duration
	cancel      context.CancelFunc
}

func (ch *Channel) current() *amqp.Channel {
	ch.m.RLock()
	defer ch.m.RUnlock()
	return ch.ch
}

func (ch *Channel) Close() error {
	if !ch.closed.CompareAndSwap(false, true) {
		return ErrChannelClosed
	}
	ch.cancel()
	if err := ch.current().Close(); err != nil {
		return errors.Wrap(err, "close amqp channel")
	}
	return nil
}

func (ch *Channel) IsClosed() bool {
	return ch.closed.Load()
}

// Consume keeps a delivery stream open across channel reopens until ctx ends or the
// channel is closed.
func (ch *Channel) Consume(ctx context.Context, queue, consumer string, autoAck bool) <-chan amqp.Delivery {
	deliveries := make(chan amqp.Delivery)
	go func() {
		defer close(deliveries)
		for {
			if ch.IsClosed() || ctx.Err() != nil {
				return
			}
			d, err := ch.current().ConsumeWithContext(ctx, queue, consumer, autoAck, false, false, false, nil)
			if err != nil {
				ch.l.Error().Err(err).Str("queue", queue).Msg("consume failed")
				select {
				case <-ctx.Done():
					return
				case <-time.After(ch.redialDelay):
				}
				continue
			}
			for msg := range d {
				select {
				case deliveries <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return deliveries
}

func (ch *Channel) Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error {
	if err := ch.current().PublishWithContext(ctx, exchange, key, false, false, msg); err != nil {
		return errors.Wrap(err, "publish")
	}
	return nil
}

func (ch *Channel) watch(ctx context.Context) {
	for {
		notify := ch.current().NotifyClose(make(chan *amqp.Error, 1))
		select {
		case <-ctx.Done():
			return
		case err, ok := <-notify:
			if ch.closed.Load() {
				return
			}
			if ok {
				ch.l.Warn().Err(err).Msg("channel closed by broker, reopening")
			}
			if !ch.reopen(ctx) {
				return
			}
			ch.l.Info().Msg("channel reopened")
		}
	}
}

func (ch *Channel) reopen(ctx context.Context) bool {
	for {
		if ch.closed.Load() {
			return false
		}
		next, err := ch.conn.current().Channel()
		if err == nil {
			ch.m.Lock()
			ch.ch = next
			ch.m.Unlock()
			return true
		}
		ch.l.Warn().Err(err).Msg("reopen channel failed")
		select {
		case <-ctx.Done():
			return false
		case <-time.After(ch.redialDelay):
		}
	}
}
