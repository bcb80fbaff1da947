package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Trace hooks
	tr := NoopTraceHooks{}
	tr.OnDiscover(ctx, "app/main")
	tr.OnModule(ctx, "app/main", 3)
	tr.OnComplete(ctx, 10, 14, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "trace")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnTraceStart(ctx, "app/main")
	p.OnTraceComplete(ctx, "app/main", 10, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Trace().(NoopTraceHooks); !ok {
		t.Error("Trace() should return NoopTraceHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}

	// Set custom hooks
	customTrace := &testTraceHooks{}
	SetTraceHooks(customTrace)
	if Trace() != customTrace {
		t.Error("SetTraceHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Trace().(NoopTraceHooks); !ok {
		t.Error("Reset() should restore NoopTraceHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testTraceHooks{}
	SetTraceHooks(custom)

	// Setting nil should be ignored
	SetTraceHooks(nil)

	if Trace() != custom {
		t.Error("SetTraceHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testTraceHooks struct{ NoopTraceHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testPipelineHooks struct{ NoopPipelineHooks }
