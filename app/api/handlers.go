package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kathrine0/sitefeed/app/content"
	"github.com/kathrine0/sitefeed/app/feed"
	"github.com/kathrine0/sitefeed/app/tasks"
)

func NewHandler(repo ContentRepository, assembler FeedAssembler, metadata feed.Metadata, feedCollections []string,
	scheduler tasks.TaskSchedulerInterface, rebuildTask func() tasks.TaskInterface, version string) *Handler {
	return &Handler{
		repo:            repo,
		assembler:       assembler,
		metadata:        metadata,
		feedCollections: feedCollections,
		scheduler:       scheduler,
		rebuildTask:     rebuildTask,
		version:         version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
	}

	if count, err := h.repo.CountEntries(c.Request.Context()); err == nil {
		health["entries"] = count
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) APIListCollections(c *gin.Context) {
	collections, err := h.repo.ListCollections(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_collections", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	response := make([]collectionResponse, 0, len(collections))
	for _, collection := range collections {
		response = append(response, collectionResponse{
			Name:     collection.Name,
			SyncedAt: collection.SyncedAt.In(time.Local).Format(time.RFC3339),
			Entries:  collection.Entries,
			Drafts:   collection.Drafts,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"collections": response,
		"total":       len(response),
	})
}

func (h *Handler) APIGetCollection(c *gin.Context) {
	name := c.Param("name")

	entries, err := h.repo.GetCollection(c.Request.Context(), name)
	if errors.Is(err, content.ErrCollectionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found", "collection": name})
		return
	}
	if err != nil {
		slog.Error("Database error", "operation", "get_collection", "collection", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	includeBody := c.Query("body") == "true"

	response := make([]entryResponse, 0, len(entries))
	for _, entry := range entries {
		e := entryResponse{
			Slug: entry.Slug,
			Path: entry.Path(),
			Data: entry.Data,
		}
		if includeBody {
			e.Body = entry.Body
		}
		response = append(response, e)
	}

	c.JSON(http.StatusOK, gin.H{
		"collection": name,
		"entries":    response,
		"total":      len(response),
	})
}

// APIPreviewFeed assembles the feed from the current store contents without
// writing anything.
func (h *Handler) APIPreviewFeed(c *gin.Context) {
	metadata, items, err := h.assembler.Run(c.Request.Context(), h.feedCollections, h.metadata)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, content.ErrCollectionNotFound):
			status = http.StatusNotFound
		case errors.Is(err, feed.ErrMissingSortKey):
			status = http.StatusUnprocessableEntity
		}
		slog.Error("Feed assembly failed", "collections", h.feedCollections, "error", err)
		c.JSON(status, gin.H{"error": "Feed assembly failed", "details": err.Error()})
		return
	}

	response := make([]feedItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, feedItemResponse{
			Title:           item.Title,
			Description:     item.Description,
			PublicationDate: item.PublicationDate.Format(time.RFC3339),
			Link:            item.Link,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"title":       metadata.Title,
		"description": metadata.Description,
		"site":        metadata.SiteURL,
		"collections": h.feedCollections,
		"items":       response,
		"total":       len(response),
	})
}

func (h *Handler) APIRebuild(c *gin.Context) {
	task := h.rebuildTask()
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Error enqueueing rebuild task", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Failed to enqueue rebuild task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Rebuild enqueued",
		"task": gin.H{
			"id":   task.GetID(),
			"type": string(task.GetType()),
		},
	})
}
