package layout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/forcegraph/models"
)

func startRunner(t *testing.T, s *Session) (*Runner, context.CancelFunc, <-chan error) {
	t.Helper()
	r := NewRunner(s, 200, 0.01)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	t.Cleanup(cancel)
	return r, cancel, done
}

func TestRunnerSteps(t *testing.T) {
	s := newSession()
	require.NoError(t, s.Sync(triangle(t)))
	r, _, _ := startRunner(t, s)

	first := r.Frame()
	assert.Eventually(t, func() bool {
		f := r.Frame()
		return len(f.Nodes) == 3 && f.Nodes[0].X != first.Nodes[0].X
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRunnerSubmit(t *testing.T) {
	s := newSession()
	r, _, _ := startRunner(t, s)
	ctx := context.Background()

	require.NoError(t, r.Submit(ctx, func(s *Session) error {
		return s.AddNode(models.NewNodeAt("a", "A", 0, 0))
	}))
	require.NoError(t, r.Submit(ctx, func(s *Session) error {
		return s.AddNode(models.NewNodeAt("b", "B", 50, 0))
	}))

	// The frame published after a mutation already contains it.
	assert.Len(t, r.Frame().Nodes, 2)

	err := r.Submit(ctx, func(s *Session) error { return s.RemoveNode("ghost") })
	assert.Error(t, err)
}

func TestRunnerStops(t *testing.T) {
	s := newSession()
	r, cancel, done := startRunner(t, s)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop")
	}

	err := r.Submit(context.Background(), func(*Session) error { return nil })
	assert.ErrorIs(t, err, ErrStopped)
}
