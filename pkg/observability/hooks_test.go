package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnStageStart(ctx, StageExtract)
	p.OnStageComplete(ctx, StageExtract, time.Second, nil)
	p.OnRunComplete(ctx, 10, 4, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "network")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)
}

type recordingPipelineHooks struct {
	NoopPipelineHooks
	stages []string
}

func (r *recordingPipelineHooks) OnStageStart(_ context.Context, stage string) {
	r.stages = append(r.stages, stage)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)
	Pipeline().OnStageStart(context.Background(), StageResolve)
	if len(rec.stages) != 1 || rec.stages[0] != StageResolve {
		t.Errorf("registered hooks should receive events, got %v", rec.stages)
	}

	// nil registration keeps the current hooks.
	SetPipelineHooks(nil)
	if Pipeline() != PipelineHooks(rec) {
		t.Error("SetPipelineHooks(nil) should keep current hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset should restore noop hooks")
	}
}
