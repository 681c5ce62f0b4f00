package hashcrack

import (
	"context"
	"encoding/xml"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/ykhdr/dictcrack/internal/digest"
	"github.com/ykhdr/dictcrack/internal/hashcrack/strategy"
	"github.com/ykhdr/dictcrack/internal/messages/request"
	"github.com/ykhdr/dictcrack/internal/queue"
	"github.com/ykhdr/dictcrack/internal/queue/connection"
	"github.com/ykhdr/dictcrack/internal/queue/consumer"
	"github.com/ykhdr/dictcrack/internal/queue/publisher"
	"github.com/ykhdr/dictcrack/internal/store/requeststore"
	"github.com/ykhdr/dictcrack/internal/wordlist"
	"github.com/ykhdr/dictcrack/pkg/api"
	"github.com/ykhdr/dictcrack/pkg/messages"
)

// QueueWorker consumes CrackTask messages, cracks them and publishes one
// CrackTaskResult per task.
type QueueWorker struct {
	l            zerolog.Logger
	service      *Service
	requestStore requeststore.RequestStore
	wordlistDir  string
	conn         *connection.Connection
	consumerCfg  *consumer.Config
	publisherCfg *publisher.Config
	publisher    publisher.Publisher[messages.CrackTaskResult]
	now          func() time.Time
}

func NewQueueWorker(
	cfg *queue.Config,
	wordlistDir string,
	service *Service,
	requestStore requeststore.RequestStore,
	conn *connection.Connection,
) *QueueWorker {
	return &QueueWorker{
		service:      service,
		requestStore: requestStore,
		wordlistDir:  wordlistDir,
		conn:         conn,
		consumerCfg:  cfg.Consumer.ToConsumerConfig(xml.Unmarshal),
		publisherCfg: cfg.Publisher.ToPublisherConfig(xml.Marshal, "application/xml"),
		now:          time.Now,
		l: log.With().
			Str("domain", "hashcrack").
			Str("type", "queue-worker").
			Logger(),
	}
}

// Start blocks consuming tasks until ctx is done.
func (w *QueueWorker) Start(ctx context.Context) error {
	ch, err := w.conn.Channel(ctx)
	if err != nil {
		w.l.Warn().Err(err).Msg("error create amqp channel")
		return errors.Wrap(err, "create amqp channel")
	}
	defer func() { _ = ch.Close() }()
	w.publisher = publisher.New[messages.CrackTaskResult](ch, w.publisherCfg)
	c := consumer.New[messages.CrackTask](ch, w.receive, w.consumerCfg)
	w.l.Info().Str("queue", w.consumerCfg.Queue).Msg("queue worker is running")
	c.Subscribe(ctx)
	return nil
}

func (w *QueueWorker) receive(ctx context.Context, task *messages.CrackTask, d amqp.Delivery) error {
	result := w.crackTask(ctx, task)
	if err := w.publisher.SendMessage(ctx, result, publisher.Persistent); err != nil {
		_ = d.Nack(false, true)
		return errors.Wrap(err, "publish task result")
	}
	return errors.Wrap(d.Ack(false), "ack delivery")
}

// crackTask runs one task and records it in the request store under the task's
// request id. Failures become ERROR results rather than dropped messages.
func (w *QueueWorker) crackTask(ctx context.Context, task *messages.CrackTask) *messages.CrackTaskResult {
	if task.RequestId == "" {
		task.RequestId = uuid.NewString()
	}
	l := w.l.With().Str("req-id", task.RequestId).Logger()
	l.Debug().
		Str("algorithm", task.Algorithm).
		Str("hash", task.Hash).
		Str("wordlist", task.Wordlist).
		Msg("cracking task")

	info := &request.Info{
		ID:     request.Id(task.RequestId),
		Status: request.StatusInProgress,
		Request: &api.CrackRequest{
			Algorithm: task.Algorithm,
			Hash:      task.Hash,
			Wordlist:  task.Wordlist,
		},
		CreatedAt: w.now(),
	}
	w.save(ctx, l, info)

	result := &messages.CrackTaskResult{
		Id:        uuid.NewString(),
		RequestId: task.RequestId,
	}
	res, err := w.run(ctx, task)
	if err != nil {
		l.Warn().Err(err).Msg("task failed")
		result.Status = messages.TaskError
		result.Error = err.Error()
		info.Fail(err.Error(), w.now())
	} else {
		result.Attempts = res.Attempts()
		result.Status = messages.TaskNotFound
		if res.Found() {
			result.Status = messages.TaskFound
			result.Candidate = res.Candidate()
		}
		info.Finish(res.Found(), res.Candidate(), res.Attempts(), w.now())
	}
	w.save(ctx, l, info)
	return result
}

func (w *QueueWorker) run(ctx context.Context, task *messages.CrackTask) (strategy.Result, error) {
	alg, err := digest.ParseAlgorithm(task.Algorithm)
	if err != nil {
		return strategy.Result{}, err
	}
	src, err := wordlist.Resolve(w.wordlistDir, task.Wordlist)
	if err != nil {
		return strategy.Result{}, err
	}
	return w.service.Crack(ctx, alg, strings.TrimSpace(task.Hash), src)
}

func (w *QueueWorker) save(ctx context.Context, l zerolog.Logger, info *request.Info) {
	if w.requestStore == nil {
		return
	}
	if err := w.requestStore.Save(ctx, info); err != nil {
		l.Warn().Err(err).Msg("failed to store task state")
	}
}
