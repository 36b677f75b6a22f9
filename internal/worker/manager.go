package worker

import (
	"context"
	"errors"
	"reflect"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Manager runs a set of channel consumers concurrently, one goroutine per
// runner. It is the composition root's handle on consumer lifecycles: Run
// blocks until every runner has drained, Stop requests shutdown and lets
// in-flight batches finish.
type Manager struct {
	runners []*Runner
	logger  zerolog.Logger
}

// NewManager constructs a manager over the supplied runners.
func NewManager(logger zerolog.Logger, runners ...*Runner) (*Manager, error) {
	if len(runners) == 0 {
		return nil, errors.New("worker manager: at least one runner is required")
	}
	for _, r := range runners {
		if r == nil {
			return nil, errors.New("worker manager: nil runner")
		}
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &Manager{
		runners: runners,
		logger:  logger.With().Str("component", "worker_manager").Logger(),
	}, nil
}

// Run starts every runner and blocks until all have stopped. Channel
// consumers are independent: one runner's failure does not stop the others,
// and cancelling the context shuts everything down.
func (m *Manager) Run(ctx context.Context) error {
	m.logger.Info().Int("consumers", len(m.runners)).Msg("starting channel consumers")

	g, ctx := errgroup.WithContext(ctx)
	for _, r := range m.runners {
		runner := r
		g.Go(func() error {
			return runner.Run(ctx)
		})
	}

	err := g.Wait()
	m.logger.Info().Msg("all channel consumers stopped")
	return err
}

// Stop requests shutdown of every runner.
func (m *Manager) Stop() {
	for _, r := range m.runners {
		r.Stop()
	}
}
