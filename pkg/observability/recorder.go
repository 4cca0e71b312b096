package observability

import (
	"context"
	"sync"
	"time"
)

// Counts is a snapshot of the events seen by a [Recorder].
type Counts struct {
	Loads        int
	Figures      int
	FigureErrors int
	Bytes        int // total size of successfully rendered figures
	CacheHits    int
	CacheMisses  int
	CacheSets    int
	Responses    int
}

// Recorder implements every hook interface by counting events. The preview
// server exposes its counts; tests use it to assert on emitted events.
type Recorder struct {
	NoopPipelineHooks
	NoopCacheHooks
	NoopHTTPHooks

	mu sync.Mutex
	c  Counts
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Counts returns the current counts.
func (r *Recorder) Counts() Counts {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.c
}

func (r *Recorder) add(f func(*Counts)) {
	r.mu.Lock()
	f(&r.c)
	r.mu.Unlock()
}

func (r *Recorder) OnLoadComplete(_ context.Context, _ string, _ int, _ time.Duration, _ error) {
	r.add(func(c *Counts) { c.Loads++ })
}

func (r *Recorder) OnFigureComplete(_ context.Context, _, _ string, size int, _ time.Duration, err error) {
	r.add(func(c *Counts) {
		c.Figures++
		if err != nil {
			c.FigureErrors++
			return
		}
		c.Bytes += size
	})
}

func (r *Recorder) OnCacheHit(context.Context, string) {
	r.add(func(c *Counts) { c.CacheHits++ })
}

func (r *Recorder) OnCacheMiss(context.Context, string) {
	r.add(func(c *Counts) { c.CacheMisses++ })
}

func (r *Recorder) OnCacheSet(context.Context, string, int) {
	r.add(func(c *Counts) { c.CacheSets++ })
}

func (r *Recorder) OnResponse(context.Context, string, string, int, time.Duration) {
	r.add(func(c *Counts) { c.Responses++ })
}

var (
	_ PipelineHooks = (*Recorder)(nil)
	_ CacheHooks    = (*Recorder)(nil)
	_ HTTPHooks     = (*Recorder)(nil)
)
