package entrypoint

import (
	"context"
	"errors"

	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// MaintenanceJob returns the scheduled catalog maintenance: a reference
// reconciliation followed by orphan cover cleanup. With a task client both
// are queued; without one they run inline on the scheduler goroutine.
func MaintenanceJob(client *tasks.Client, reconciler tasks.ReferenceReconciler, books tasks.CoverLister, store tasks.CoverRemover) scheduler.Job {
	return func(ctx context.Context) error {
		reconcile := tasks.ReconcileReferencesTask{Reason: "schedule"}
		cleanup := tasks.CleanupOrphanCoversTask{}

		if client != nil {
			_, errReconcile := client.Enqueue(ctx, reconcile)
			_, errCleanup := client.Enqueue(ctx, cleanup)
			return errors.Join(errReconcile, errCleanup)
		}

		if err := tasks.ReconcileReferencesProcessor(reconciler)(ctx, reconcile); err != nil {
			return err
		}
		return tasks.CleanupOrphanCoversProcessor(books, store)(ctx, cleanup)
	}
}
