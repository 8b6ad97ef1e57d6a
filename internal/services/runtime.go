package services

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

var ErrShutdownTimeout = errors.New("background loops did not stop in time")

// Loop is a long-running background job. Run must return once ctx is done.
type Loop struct {
	Name string
	Run  func(ctx context.Context) error
}

// Runtime supervises the background loops of the server: the change feed
// receiver and the board mirror.
type Runtime struct {
	logger zerolog.Logger

	mu      sync.Mutex
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	stopped bool
	failed  map[string]error
}

func NewRuntime(logger zerolog.Logger) *Runtime {
	return &Runtime{
		logger: logger.With().Str("component", "runtime").Logger(),
		failed: make(map[string]error),
	}
}

// Start launches every loop on a context derived from the ctx of the first
// call. A loop that returns an error is logged and recorded but does not
// stop the others.
func (r *Runtime) Start(ctx context.Context, loops ...Loop) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}
	if r.ctx == nil {
		r.ctx, r.cancel = context.WithCancel(ctx)
	}

	for _, loop := range loops {
		r.wg.Add(1)
		go r.run(r.ctx, loop)
	}
}

func (r *Runtime) run(ctx context.Context, loop Loop) {
	defer r.wg.Done()

	r.logger.Info().Str("loop", loop.Name).Msg("loop started")

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		r.mu.Lock()
		r.failed[loop.Name] = err
		r.mu.Unlock()

		r.logger.Error().
			Err(err).
			Str("loop", loop.Name).
			Msg("loop stopped with error")
		return
	}

	r.logger.Info().Str("loop", loop.Name).Msg("loop stopped")
}

// Failed reports the error a loop stopped with, if any.
func (r *Runtime) Failed(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failed[name]
}

// Shutdown cancels every loop and waits for them until ctx is done.
func (r *Runtime) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.stopped = true
	if r.cancel != nil {
		r.cancel()
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info().Msg("background loops shut down cleanly")
		return nil
	case <-ctx.Done():
		r.logger.Warn().Msg("background loop shutdown timed out")
		return ErrShutdownTimeout
	}
}
