package layout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ErrStopped is returned by Submit once the runner has exited.
var ErrStopped = errors.New("runner stopped")

type mutation struct {
	fn   func(*Session) error
	done chan error
}

// Runner owns a Session on a single goroutine. It steps the simulation at a
// fixed rate, applies submitted mutations between steps and publishes the
// latest Frame for concurrent readers.
type Runner struct {
	session  *Session
	interval time.Duration
	dt       float64
	logger   *log.Logger

	mutations chan mutation
	stopped   chan struct{}

	mu    sync.RWMutex
	frame Frame
}

// NewRunner creates a runner stepping s fps times a second by dt seconds.
// A non-positive dt steps by the frame interval.
func NewRunner(s *Session, fps int, dt float64) *Runner {
	if fps <= 0 {
		fps = 30
	}
	interval := time.Second / time.Duration(fps)
	if dt <= 0 {
		dt = interval.Seconds()
	}
	return &Runner{
		session:   s,
		interval:  interval,
		dt:        dt,
		logger:    s.logger,
		mutations: make(chan mutation),
		stopped:   make(chan struct{}),
		frame:     s.Frame(),
	}
}

// Run drives the simulation until ctx is done. It must be called once.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.stopped)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("layout runner started", "interval", r.interval, "dt", r.dt, "nodes", r.session.Len())
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("layout runner stopped")
			return nil
		case m := <-r.mutations:
			err := m.fn(r.session)
			r.publish()
			m.done <- err
		case <-ticker.C:
			r.session.Step(r.dt)
			r.publish()
		}
	}
}

// Submit runs fn on the runner's goroutine between two steps and returns its
// error.
func (r *Runner) Submit(ctx context.Context, fn func(*Session) error) error {
	m := mutation{fn: fn, done: make(chan error, 1)}
	select {
	case r.mutations <- m:
	case <-r.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-m.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Frame returns the most recently published frame. Frames are never
// modified after publication.
func (r *Runner) Frame() Frame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frame
}

func (r *Runner) publish() {
	f := r.session.Frame()
	r.mu.Lock()
	r.frame = f
	r.mu.Unlock()
}
