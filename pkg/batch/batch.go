// Package batch drives formula generation over a series of mass windows
// and hands each sorted window to a Sink.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/ChrisMcGann/FormKey/pkg/core"
	"github.com/ChrisMcGann/FormKey/pkg/enumerate"
	"github.com/ChrisMcGann/FormKey/pkg/limits"
)

// Default window layout: 100 m/z blocks from 100 to 800.
var (
	DefaultCenters   = []float64{150, 250, 350, 450, 550, 650, 750}
	DefaultHalfWidth = 50.0
)

// DefaultCacheSize is the number of window results kept in memory.
const DefaultCacheSize = 64

// Config controls a batch run.
type Config struct {
	Mode      core.Mode
	Centers   []float64 // window centers, processed in this order
	HalfWidth float64   // each window is center ± HalfWidth
	Workers   int       // concurrent windows (>=1)
	CacheSize int       // window results to memoise (0 disables)
}

// WindowResult is the outcome of one window.
type WindowResult struct {
	Index      int
	Window     core.Window
	Mode       core.Mode
	Bounds     limits.Bounds    // effective bounds searched
	Candidates []core.Candidate // sorted by mass; shared with the cache, do not modify
	Elapsed    time.Duration
	Cached     bool
	Err        error // set when the window failed; Candidates is then empty
}

// Sink receives window results in center order.
type Sink interface {
	WriteWindow(res *WindowResult) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(res *WindowResult) error

// WriteWindow calls f.
func (f SinkFunc) WriteWindow(res *WindowResult) error {
	return f(res)
}

// MultiSink writes every result to each sink in turn.
func MultiSink(sinks ...Sink) Sink {
	return SinkFunc(func(res *WindowResult) error {
		for _, s := range sinks {
			if err := s.WriteWindow(res); err != nil {
				return err
			}
		}
		return nil
	})
}

// Summary describes a completed run.
type Summary struct {
	Windows    int
	Failed     int
	Candidates int
	Elapsed    time.Duration
	Bounds     limits.Bounds // bounds of the last window
}

type cacheKey struct {
	mode   core.Mode
	window core.Window
	bounds limits.Bounds
}

// Driver runs the enumerator over every configured window.
type Driver struct {
	cfg      Config
	resolver *limits.Resolver
	enum     *enumerate.Enumerator
	cache    *lru.Cache[cacheKey, []core.Candidate]
	log      io.Writer
}

// NewDriver creates a driver. Warnings are written to log; nil discards them.
func NewDriver(cfg Config, resolver *limits.Resolver, enum *enumerate.Enumerator, log io.Writer) (*Driver, error) {
	if _, err := enumerate.StrategyFor(cfg.Mode); err != nil {
		return nil, err
	}
	if len(cfg.Centers) == 0 {
		return nil, fmt.Errorf("no window centers configured")
	}
	if cfg.HalfWidth <= 0 {
		return nil, fmt.Errorf("half-width must be positive, got %g", cfg.HalfWidth)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if log == nil {
		log = io.Discard
	}

	d := &Driver{
		cfg:      cfg,
		resolver: resolver,
		enum:     enum,
		log:      log,
	}
	if cfg.CacheSize > 0 {
		cache, err := lru.New[cacheKey, []core.Candidate](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create window cache: %w", err)
		}
		d.cache = cache
	}
	return d, nil
}

// Windows returns the configured windows in order.
func (d *Driver) Windows() []core.Window {
	windows := make([]core.Window, len(d.cfg.Centers))
	for i, c := range d.cfg.Centers {
		windows[i] = core.WindowAround(c, d.cfg.HalfWidth)
	}
	return windows
}

// Run enumerates every window and passes each result to sink in center
// order. A failing window is reported and skipped; sink errors and
// context cancellation abort the run.
func (d *Driver) Run(ctx context.Context, sink Sink) (Summary, error) {
	start := time.Now()
	windows := d.Windows()
	results := make([]*WindowResult, len(windows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.Workers)
	for i, w := range windows {
		i, w := i, w
		g.Go(func() error {
			res := d.runWindow(gctx, i, w)
			if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
				return res.Err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	var sum Summary
	for _, res := range results {
		sum.Windows++
		if res.Err != nil {
			sum.Failed++
			fmt.Fprintf(d.log, "Warning: window %s failed: %v\n", res.Window, res.Err)
		}
		sum.Candidates += len(res.Candidates)
		sum.Bounds = res.Bounds

		if err := sink.WriteWindow(res); err != nil {
			return sum, fmt.Errorf("failed to write window %s: %w", res.Window, err)
		}
	}
	sum.Elapsed = time.Since(start)
	return sum, nil
}

// runWindow resolves and enumerates one window. Each call builds its own
// candidate slice.
func (d *Driver) runWindow(ctx context.Context, index int, w core.Window) *WindowResult {
	start := time.Now()
	res := &WindowResult{Index: index, Window: w, Mode: d.cfg.Mode}

	bounds, err := d.resolver.Resolve(w, d.cfg.Mode)
	if err != nil {
		res.Bounds = bounds
		res.Err = err
		res.Candidates = []core.Candidate{}
		return res
	}
	strat, _ := enumerate.StrategyFor(d.cfg.Mode)
	res.Bounds = strat.Effective(bounds)

	key := cacheKey{mode: d.cfg.Mode, window: w, bounds: res.Bounds}
	if d.cache != nil {
		if cands, ok := d.cache.Get(key); ok {
			res.Candidates = cands
			res.Cached = true
			res.Elapsed = time.Since(start)
			return res
		}
	}

	cands, err := d.enum.Enumerate(ctx, d.cfg.Mode, w, bounds)
	res.Elapsed = time.Since(start)
	if err != nil {
		res.Err = err
		res.Candidates = []core.Candidate{}
		return res
	}
	if cands == nil {
		cands = []core.Candidate{}
	}
	res.Candidates = cands
	if d.cache != nil {
		d.cache.Add(key, cands)
	}
	return res
}
