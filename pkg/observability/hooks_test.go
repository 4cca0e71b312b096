package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "knee_running.json")
	p.OnLoadComplete(ctx, "knee_running.json", 2000, time.Second, nil)
	p.OnFigureStart(ctx, "knee-torque", "pdf")
	p.OnFigureComplete(ctx, "knee-torque", "pdf", 4096, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "artifact")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/figures/knee-speed.svg")
	h.OnResponse(ctx, "GET", "/figures/knee-speed.svg", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	// Setting nil should be ignored
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	r := NewRecorder()

	r.OnLoadComplete(ctx, "trial.json", 10, time.Millisecond, nil)
	r.OnFigureComplete(ctx, "knee-torque", "pdf", 100, time.Millisecond, nil)
	r.OnFigureComplete(ctx, "knee-speed", "pdf", 0, time.Millisecond, errors.New("disk full"))
	r.OnCacheHit(ctx, "artifact")
	r.OnCacheMiss(ctx, "artifact")
	r.OnCacheMiss(ctx, "artifact")
	r.OnCacheSet(ctx, "artifact", 100)
	r.OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)

	c := r.Counts()
	want := Counts{Loads: 1, Figures: 2, FigureErrors: 1, Bytes: 100,
		CacheHits: 1, CacheMisses: 2, CacheSets: 1, Responses: 1}
	if c != want {
		t.Errorf("Counts() = %+v, want %+v", c, want)
	}
}
