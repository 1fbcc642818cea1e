// Package diagram mediates between a rendering surface and the
// bifurcation sampler.
//
// A [Controller] owns one diagram: it receives view-window changes,
// decides when a re-sample is warranted, runs the sampling pass on its
// own goroutine, and delivers results to a [Surface]. A window change
// arriving mid-pass supersedes the in-flight request — last request
// wins, there is no queue — and the stale pass's result is discarded.
package diagram

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/san-kum/citsigol/internal/bifurc"
)

// Surface receives sampling results. PointsReady is invoked from the
// controller's sampling goroutine with the delivery lock held: it must
// return promptly and must not call back into the controller.
type Surface interface {
	PointsReady(generation uint64, res *bifurc.Result)
}

// State of the controller's sampling machine.
type State int32

const (
	StateIdle State = iota
	StateSampling
	StateRendering
)

func (s State) String() string {
	switch s {
	case StateSampling:
		return "sampling"
	case StateRendering:
		return "rendering"
	default:
		return "idle"
	}
}

// Controller drives one diagram. Create one per view, owned by its
// rendering surface; do not share a controller between views.
type Controller struct {
	sampler *bifurc.Sampler
	surface Surface
	log     zerolog.Logger
	state   atomic.Int32

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	lastWindow *bifurc.Window
	lastResult *bifurc.Result
	lastGen    uint64
	wg         sync.WaitGroup
}

func NewController(s *bifurc.Sampler, surface Surface, log *zerolog.Logger) *Controller {
	l := zerolog.Nop()
	if log != nil {
		l = *log
	}
	return &Controller{sampler: s, surface: surface, log: l}
}

// ViewChanged requests a re-sample for a new view window and returns the
// generation id the eventual delivery will carry. The same window issued
// twice re-delivers the cached result under its original generation
// without resampling.
func (c *Controller) ViewChanged(w bifurc.Window) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lastWindow != nil && *c.lastWindow == w && c.lastResult != nil {
		c.log.Debug().Uint64("generation", c.lastGen).Msg("window unchanged, re-delivering cached result")
		c.surface.PointsReady(c.lastGen, c.lastResult)
		return c.lastGen
	}

	if c.cancel != nil {
		c.cancel()
	}
	c.generation++
	gen := c.generation

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.state.Store(int32(StateSampling))

	c.log.Debug().
		Uint64("generation", gen).
		Float64("r_min", w.RMin).Float64("r_max", w.RMax).
		Float64("x_min", w.XMin).Float64("x_max", w.XMax).
		Msg("sampling pass started")

	c.wg.Add(1)
	go c.run(ctx, gen, w)
	return gen
}

func (c *Controller) run(ctx context.Context, gen uint64, w bifurc.Window) {
	defer c.wg.Done()

	res, err := c.sampler.Sample(ctx, w)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.log.Debug().Uint64("generation", gen).Msg("discarding superseded result")
		return
	}
	if err != nil {
		c.log.Debug().Err(err).Uint64("generation", gen).Msg("sampling pass aborted")
		c.state.Store(int32(StateIdle))
		return
	}

	c.state.Store(int32(StateRendering))
	c.lastWindow = &w
	c.lastResult = res
	c.lastGen = gen
	c.surface.PointsReady(gen, res)
	c.state.Store(int32(StateIdle))

	c.log.Debug().
		Uint64("generation", gen).
		Int("points", len(res.Points)).
		Bool("precision_limited", res.PrecisionLimited).
		Msg("sampling pass delivered")
}

// State reports the current phase of the sampling machine.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Wait blocks until no sampling pass is in flight.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close aborts any in-flight pass and waits for its goroutine to exit.
// The sampler is owned by the caller and is not closed.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.mu.Unlock()
	c.wg.Wait()
}
