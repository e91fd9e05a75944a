package tasks

import (
	"context"

	"github.com/kathrine0/sitefeed/app/content"
	"github.com/kathrine0/sitefeed/app/database"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the serve command and the preview API to queue background work.
//
//	scheduler := NewScheduler(periodic, interval, workerCount)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewSyncContentTask(syncer, builder, true))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}

type ContentLoader interface {
	Collections() []string
	LoadCollection(name string) ([]content.Entry, error)
}

type CollectionSyncer interface {
	SyncCollection(ctx context.Context, name string, entries []content.Entry) (database.SyncResult, error)
}
