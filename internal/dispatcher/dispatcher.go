package dispatcher

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/ykhdr/dictcrack/internal/digest"
	"github.com/ykhdr/dictcrack/internal/hashcrack"
	"github.com/ykhdr/dictcrack/internal/messages/request"
	"github.com/ykhdr/dictcrack/internal/store/requeststore"
	"github.com/ykhdr/dictcrack/internal/wordlist"
	"github.com/ykhdr/dictcrack/pkg/api"
	"golang.org/x/sync/errgroup"
)

var ErrQueueFull = errors.New("request queue is full")

type Config struct {
	QueueSize       int           `kdl:"queue-size"`
	Workers         int           `kdl:"workers"`
	DispatchTimeout time.Duration `kdl:"dispatch-timeout"`
	RequestTimeout  time.Duration `kdl:"request-timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		QueueSize:       64,
		Workers:         2,
		DispatchTimeout: 5 * time.Second,
		RequestTimeout:  10 * time.Minute,
	}
}

type job struct {
	id  request.Id
	alg digest.Algorithm
	src wordlist.Source
}

// Dispatcher queues crack requests and runs them on a fixed number of workers,
// recording every state change in the request store.
type Dispatcher struct {
	l               zerolog.Logger
	queue           chan job
	workers         int
	dispatchTimeout time.Duration
	requestTimeout  time.Duration
	service         *hashcrack.Service
	requestStore    requeststore.RequestStore
	now             func() time.Time
}

func NewDispatcher(cfg *Config, service *hashcrack.Service, requestStore requeststore.RequestStore) *Dispatcher {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{
		queue:           make(chan job, cfg.QueueSize),
		workers:         workers,
		dispatchTimeout: cfg.DispatchTimeout,
		requestTimeout:  cfg.RequestTimeout,
		service:         service,
		requestStore:    requestStore,
		now:             time.Now,
		l: log.With().
			Str("domain", "dispatcher").
			Logger(),
	}
}

// Start runs the workers until ctx is done.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.l.Info().Int("workers", d.workers).Msg("dispatcher is running")
	group, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < d.workers; i++ {
		group.Go(func() error {
			for {
				select {
				case j := <-d.queue:
					d.Run(gCtx, j.id, j.alg, j.src)
				case <-gCtx.Done():
					return gCtx.Err()
				}
			}
		})
	}
	return group.Wait()
}

// Dispatch stores a new request and queues it. The caller has already validated
// the algorithm, digest and wordlist.
func (d *Dispatcher) Dispatch(
	ctx context.Context, apiReq *api.CrackRequest, alg digest.Algorithm, src wordlist.Source,
) (request.Id, error) {
	info := &request.Info{
		ID:        request.Id(uuid.NewString()),
		Status:    request.StatusNew,
		Request:   apiReq,
		CreatedAt: d.now(),
	}
	if err := d.requestStore.Save(ctx, info); err != nil {
		return "", errors.Wrap(err, "save new request")
	}
	if d.enqueue(ctx, job{id: info.ID, alg: alg, src: src}) {
		d.l.Debug().Any("request-id", info.ID).Msg("request queued")
		return info.ID, nil
	}
	if err := d.requestStore.Delete(context.WithoutCancel(ctx), info.ID); err != nil {
		d.l.Warn().Err(err).Any("request-id", info.ID).Msg("failed to drop unqueued request")
	}
	return "", ErrQueueFull
}

// enqueue tries a free slot first and only then waits up to the dispatch
// timeout. A timeout of zero or less never waits.
func (d *Dispatcher) enqueue(ctx context.Context, j job) bool {
	select {
	case d.queue <- j:
		return true
	default:
	}
	if d.dispatchTimeout <= 0 {
		return false
	}
	timer := time.NewTimer(d.dispatchTimeout)
	defer timer.Stop()
	select {
	case d.queue <- j:
		return true
	case <-timer.C:
	case <-ctx.Done():
	}
	return false
}

// Run cracks one stored request synchronously.
func (d *Dispatcher) Run(ctx context.Context, id request.Id, alg digest.Algorithm, src wordlist.Source) {
	l := d.l.With().Any("request-id", id).Logger()
	info, err := d.requestStore.Get(ctx, id)
	if err != nil {
		l.Warn().Err(err).Msg("request vanished before start")
		return
	}
	info.Status = request.StatusInProgress
	if err := d.requestStore.Save(ctx, info); err != nil {
		l.Warn().Err(err).Msg("failed to mark request in progress")
	}

	crackCtx := ctx
	if d.requestTimeout > 0 {
		var cancel context.CancelFunc
		crackCtx, cancel = context.WithTimeout(ctx, d.requestTimeout)
		defer cancel()
	}
	res, err := d.service.Crack(crackCtx, alg, info.Request.Hash, src)
	if err != nil {
		l.Warn().Err(err).Msg("request failed")
		info.Fail(err.Error(), d.now())
	} else {
		info.Finish(res.Found(), res.Candidate(), res.Attempts(), d.now())
	}
	if err := d.requestStore.Save(context.WithoutCancel(ctx), info); err != nil {
		l.Error().Err(err).Msg("failed to save request result")
	}
}
