// Package coordinator serializes the probe pipeline. It owns the published
// topology snapshot and guarantees that at most one pipeline run is in
// flight at any instant: concurrent refresh requests coalesce into at most
// one pending follow-up run, and no request is ever silently dropped.
package coordinator

import (
	"context"
	"sync"

	"github.com/voidwatch/blockd/internal/configuration"
	"github.com/voidwatch/blockd/internal/topology"
)

type prober interface {
	Ports(ctx context.Context) ([]topology.Port, error)
	Blocks(ctx context.Context) ([]*topology.Block, error)
	Volumes(ctx context.Context) ([]*topology.Volume, error)
	Mounts(ctx context.Context) ([]topology.Mount, error)
	Swaps(ctx context.Context) ([]topology.Swap, error)
	Usage(ctx context.Context, mountpoint string) (*topology.Usage, error)
}

type mounter interface {
	MountAll(ctx context.Context, blocks []*topology.Block, volumes []*topology.Volume, mounts []topology.Mount) topology.MountErrors
}

// Update is delivered to subscribers after every pipeline run: the newly
// published snapshot, or the run's failure.
type Update struct {
	Snapshot *topology.Snapshot
	Err      error
}

// run is one pipeline execution and the callers awaiting it.
type run struct {
	done chan struct{}
	snap *topology.Snapshot
	err  error
}

// Coordinator is the process-wide singleton running the probe pipeline.
type Coordinator struct {
	mu sync.Mutex

	prober   prober
	mounter  mounter
	settings *configuration.Settings

	inflight *run
	next     *run

	published   *topology.Snapshot
	subscribers []chan Update
}

// New returns a pointer to a new [Coordinator].
func New(prober prober, mounter mounter, settings *configuration.Settings) *Coordinator {
	return &Coordinator{
		prober:   prober,
		mounter:  mounter,
		settings: settings,
	}
}

// Refresh awaits a pipeline run reflecting at least the OS state at call
// time and returns its snapshot. When idle, a run starts immediately; while
// a run is in flight, the call coalesces into the single pending follow-up
// run. A started run is never cancelled; a caller abandoning its wait does
// not affect the run or other callers.
func (c *Coordinator) Refresh(ctx context.Context) (*topology.Snapshot, error) {
	c.mu.Lock()

	var r *run
	switch {
	case c.inflight == nil:
		r = &run{done: make(chan struct{})}
		c.inflight = r
		go c.execute(r)
	case c.next == nil:
		r = &run{done: make(chan struct{})}
		c.next = r
	default:
		r = c.next
	}

	c.mu.Unlock()

	select {
	case <-r.done:
		if r.err != nil {
			return nil, r.err
		}

		return r.snap.Clone(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Snapshot returns the currently published snapshot, or [ErrNoSnapshot]
// before the first successful run.
func (c *Coordinator) Snapshot() (*topology.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.published == nil {
		return nil, ErrNoSnapshot
	}

	return c.published.Clone(), nil
}

// Subscribe returns a channel delivering an [Update] after every pipeline
// run. Slow subscribers miss updates rather than blocking the pipeline.
func (c *Coordinator) Subscribe() <-chan Update {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan Update, 1)
	c.subscribers = append(c.subscribers, ch)

	return ch
}

// execute runs one pipeline to completion, publishes its result and starts
// the pending follow-up run, if any.
func (c *Coordinator) execute(r *run) {
	// Runs are never cancelled once started; they complete or fail on their
	// own terms regardless of any caller's context.
	snap, err := c.pipeline(context.Background())

	r.snap, r.err = snap, err

	c.mu.Lock()
	if err == nil {
		c.published = snap
	}

	subscribers := make([]chan Update, len(c.subscribers))
	copy(subscribers, c.subscribers)

	c.inflight = c.next
	c.next = nil
	if c.inflight != nil {
		go c.execute(c.inflight)
	}
	c.mu.Unlock()

	close(r.done)

	for _, ch := range subscribers {
		select {
		case ch <- Update{Snapshot: snap, Err: err}:
		default:
		}
	}
}
