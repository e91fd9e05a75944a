package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

type SyncContentTask struct {
	Task
	Force   bool
	syncer  *Syncer
	builder *Builder
}

// NewSyncContentTask syncs content into the store and, when the built site is
// out of date or force is set, schedules a site build as its follow-up.
func NewSyncContentTask(syncer *Syncer, builder *Builder, force bool) *SyncContentTask {
	return &SyncContentTask{
		Task:    NewTask(TaskTypeSyncContent),
		Force:   force,
		syncer:  syncer,
		builder: builder,
	}
}

func (t *SyncContentTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	results, err := t.syncer.Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to sync content: %w", err)
	}

	changed := Changed(results)
	if changed {
		t.builder.MarkDirty()
	}
	if t.builder.Dirty() || t.Force {
		t.next = NewBuildSiteTask(t.builder)
	}

	slog.Info("Task completed",
		"type", "SyncContent",
		"duration", t.GetDuration(),
		"collections", len(results),
		"changed", changed,
		"force", t.Force)

	return nil
}
