package tasks

import (
	"context"
	"log/slog"
)

type BuildSiteTask struct {
	Task
	builder *Builder
}

func NewBuildSiteTask(builder *Builder) *BuildSiteTask {
	return &BuildSiteTask{
		Task:    NewTask(TaskTypeBuildSite),
		builder: builder,
	}
}

func (t *BuildSiteTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result, err := t.builder.Run(ctx)
	if err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", "BuildSite",
		"duration", t.GetDuration(),
		"items", result.Items)

	return nil
}
