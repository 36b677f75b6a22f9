package worker

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ajayykmr/notification-service-go/internal/kafka/consumer"
	"github.com/ajayykmr/notification-service-go/internal/models"
)

// State describes the lifecycle of a channel consumer.
type State string

// Runner lifecycle states.
const (
	StateStopped  State = "stopped"
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateStopping State = "stopping"
)

// defaultLoopBackoff is the pause after an uncaught error escapes the poll
// loop; the runner resumes polling instead of terminating.
const defaultLoopBackoff = 5 * time.Second

// Fetcher abstracts the Kafka consumer for the runner.
type Fetcher interface {
	Consume(ctx context.Context, topics []string, handler consumer.Handler) error
	Commit(ctx context.Context, record *consumer.Record) error
}

// Config contains the runtime settings for one channel consumer.
type Config struct {
	Channel     models.Channel
	Topics      []string
	LoopBackoff time.Duration
}

// Dependencies collects the collaborators required by the runner.
type Dependencies struct {
	Fetcher   Fetcher
	Processor ChannelProcessor
	Logger    zerolog.Logger
}

// Runner drives one channel's consume loop. Each runner owns exactly one
// channel and processes one batch at a time; stopping lets the in-flight
// batch finish before the runner parks itself as stopped.
type Runner struct {
	cfg       Config
	fetcher   Fetcher
	processor ChannelProcessor
	logger    zerolog.Logger

	state  atomic.Value // State
	cancel atomic.Value // context.CancelFunc
}

// NewRunner constructs a channel consumer runner.
func NewRunner(cfg Config, deps Dependencies) (*Runner, error) {
	if !cfg.Channel.Valid() {
		return nil, fmt.Errorf("worker runner: unsupported channel %q", cfg.Channel)
	}
	if len(cfg.Topics) == 0 {
		return nil, errors.New("worker runner: at least one topic is required")
	}
	if deps.Fetcher == nil {
		return nil, errors.New("worker runner: fetcher dependency is required")
	}
	if deps.Processor == nil {
		return nil, errors.New("worker runner: processor dependency is required")
	}
	if deps.Processor.Channel() != cfg.Channel {
		return nil, fmt.Errorf("worker runner: processor serves %q, runner configured for %q", deps.Processor.Channel(), cfg.Channel)
	}

	logger := deps.Logger
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	if cfg.LoopBackoff <= 0 {
		cfg.LoopBackoff = defaultLoopBackoff
	}

	r := &Runner{
		cfg:       cfg,
		fetcher:   deps.Fetcher,
		processor: deps.Processor,
		logger:    logger.With().Str("component", "worker_runner").Str("channel", string(cfg.Channel)).Logger(),
	}
	r.state.Store(StateStopped)
	return r, nil
}

// State reports the runner's lifecycle state.
func (r *Runner) State() State {
	return r.state.Load().(State)
}

// Run blocks, consuming the configured topics until the context is cancelled
// or Stop is called. Errors escaping the poll loop trigger the fixed backoff
// and polling resumes; the runner never terminates on its own.
func (r *Runner) Run(ctx context.Context) error {
	if !r.state.CompareAndSwap(StateStopped, StateStarting) {
		return fmt.Errorf("worker runner: %s consumer is not stopped", r.cfg.Channel)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	r.cancel.Store(cancel)

	r.state.Store(StateRunning)
	r.logger.Info().Strs("topics", r.cfg.Topics).Msg("consumer running")

	for {
		if ctx.Err() != nil {
			break
		}

		err := r.fetcher.Consume(ctx, r.cfg.Topics, r.handle)
		if ctx.Err() != nil {
			break
		}
		if err != nil {
			r.logger.Error().Err(err).Dur("backoff", r.cfg.LoopBackoff).Msg("consume loop error, backing off")
			if !wait(ctx, r.cfg.LoopBackoff) {
				break
			}
		}
	}

	// Consume has returned, so the in-flight batch (if any) is done.
	r.state.Store(StateStopping)
	r.state.Store(StateStopped)
	r.logger.Info().Msg("consumer stopped")
	return nil
}

// Stop requests shutdown. The in-flight batch finishes; Run returns once the
// consume loop has drained.
func (r *Runner) Stop() {
	r.state.CompareAndSwap(StateRunning, StateStopping)
	if cancel, ok := r.cancel.Load().(context.CancelFunc); ok && cancel != nil {
		cancel()
	}
}

// handle processes one record synchronously and commits the offset only
// after the batch completes. A batch-level error leaves the offset
// uncommitted so the broker redelivers the message.
func (r *Runner) handle(ctx context.Context, rec *consumer.Record) error {
	result, err := r.processor.ProcessBatch(ctx, rec.Value)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("topic", rec.Topic).
			Int32("partition", rec.Partition).
			Int64("offset", rec.Offset).
			Msg("batch processing failed, offset not committed")
		return err
	}

	r.logger.Info().
		Int("success", result.Success).
		Int("failed", result.Failed).
		Int64("offset", rec.Offset).
		Msg("batch complete, committing offset")

	if err := r.fetcher.Commit(ctx, rec); err != nil {
		r.logger.Error().
			Err(err).
			Int64("offset", rec.Offset).
			Msg("offset commit failed")
	}
	return nil
}

func wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
