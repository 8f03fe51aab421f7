package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// OrphanCoverMinAge keeps uploads that may still be attaching to a book.
const OrphanCoverMinAge = 10 * time.Minute

// CoverLister lists the cover filenames books still reference.
type CoverLister interface {
	ReferencedCovers(ctx context.Context) ([]string, error)
}

// CoverRemover deletes stored covers that are not referenced.
type CoverRemover interface {
	RemoveOrphans(referenced []string, minAge time.Duration) (int, error)
}

// CleanupOrphanCoversTask removes uploaded covers no book points at.
type CleanupOrphanCoversTask struct{}

// Config returns the queue configuration for cover cleanup tasks.
func (t CleanupOrphanCoversTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_orphan_covers",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupOrphanCoversProcessor creates a processor function for CleanupOrphanCoversTask.
func CleanupOrphanCoversProcessor(books CoverLister, store CoverRemover) backlite.QueueProcessor[CleanupOrphanCoversTask] {
	return func(ctx context.Context, task CleanupOrphanCoversTask) error {
		if books == nil || store == nil {
			return fmt.Errorf("cover cleanup not configured")
		}

		referenced, err := books.ReferencedCovers(ctx)
		if err != nil {
			return fmt.Errorf("list referenced covers: %w", err)
		}

		removed, err := store.RemoveOrphans(referenced, OrphanCoverMinAge)
		if err != nil {
			return fmt.Errorf("remove orphan covers: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d orphan covers", removed)
		return nil
	}
}

// NewCleanupOrphanCoversQueue creates a backlite queue for cover cleanup tasks.
func NewCleanupOrphanCoversQueue(books CoverLister, store CoverRemover) backlite.Queue {
	return backlite.NewQueue(CleanupOrphanCoversProcessor(books, store))
}
