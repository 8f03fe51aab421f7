package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookshelf/internal/services"
)

// ReferenceReconciler rebuilds author and category back references.
type ReferenceReconciler interface {
	Run(ctx context.Context) (*services.ReconcileReport, error)
}

// ReconcileReferencesTask runs one reconciliation pass over the catalog.
type ReconcileReferencesTask struct {
	// Reason records who asked for the pass ("api", "schedule").
	Reason string `json:"reason,omitempty"`
}

// Config returns the queue configuration for reconcile tasks.
func (t ReconcileReferencesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "reconcile_references",
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ReconcileReferencesProcessor creates a processor function for ReconcileReferencesTask.
func ReconcileReferencesProcessor(reconciler ReferenceReconciler) backlite.QueueProcessor[ReconcileReferencesTask] {
	return func(ctx context.Context, task ReconcileReferencesTask) error {
		if reconciler == nil {
			return fmt.Errorf("reconciler not configured")
		}

		report, err := reconciler.Run(ctx)
		if err != nil {
			return fmt.Errorf("reconcile references: %w", err)
		}

		log.Printf("[TASK] Reconcile (%s): %d authors, %d categories, %d books fixed",
			task.Reason, report.AuthorsFixed, report.CategoriesFixed, report.BooksFixed)
		return nil
	}
}

// NewReconcileReferencesQueue creates a backlite queue for reconcile tasks.
func NewReconcileReferencesQueue(reconciler ReferenceReconciler) backlite.Queue {
	return backlite.NewQueue(ReconcileReferencesProcessor(reconciler))
}
