package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/covers"
	"github.com/mrlokans/bookshelf/internal/database"
	http_controllers "github.com/mrlokans/bookshelf/internal/http"
	"github.com/mrlokans/bookshelf/internal/scheduler"
	"github.com/mrlokans/bookshelf/internal/services"
	"github.com/mrlokans/bookshelf/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the listener so queued writes can finish.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bookshelf v%s (%s)", version, cfg.Global.Environment)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewDatabase(cfg.Database.Path, database.Options{Verbose: cfg.IsDevelopment()})
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	catalog := services.NewCatalogService(db.DB)
	reconciler := services.NewReconciler(db.DB)

	coverStore, err := covers.NewStore(cfg.Uploads.Dir, cfg.Uploads.MaxBytes)
	if err != nil {
		log.Fatalf("Failed to initialize uploads directory: %v", err)
	}
	log.Printf("Cover uploads stored in %s", coverStore.Dir())

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewReconcileReferencesQueue(reconciler),
			tasks.NewCleanupOrphanCoversQueue(catalog, coverStore),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	var maintenance *scheduler.ReconcileScheduler
	var schedulerCancel context.CancelFunc
	if cfg.Reconcile.Enabled {
		maintenance = scheduler.NewReconcileScheduler(cfg.Reconcile.Schedule, MaintenanceJob(taskClient, reconciler, catalog, coverStore))

		var schedulerCtx context.Context
		schedulerCtx, schedulerCancel = context.WithCancel(context.Background())
		if err := maintenance.Start(schedulerCtx); err != nil {
			log.Fatalf("Failed to start reconcile scheduler: %v", err)
		}
		// Repair drift left by a crash before the first scheduled run.
		maintenance.RunNow()
	}

	var apiKey *auth.APIKeyMiddleware
	if cfg.Auth.APIKeyHash != "" {
		limiter := auth.NewRateLimiter(auth.DefaultRateLimitConfig())
		defer limiter.Stop()
		apiKey = auth.NewAPIKeyMiddleware(cfg.Auth.APIKeyHash, limiter)
		log.Printf("API key required for write requests")
	} else {
		log.Printf("WARNING: AUTH_API_KEY_HASH is not set. Write endpoints are open.")
	}
	if cfg.Auth.ReadOnly {
		log.Printf("Read-only mode enabled - write operations will be blocked")
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:      db,
		Authors:       catalog,
		Categories:    catalog,
		Books:         catalog,
		Reconciler:    reconciler,
		Covers:        coverStore,
		UploadsDir:    coverStore.Dir(),
		MaxUploadSize: cfg.Uploads.MaxBytes,
		TaskClient:    taskClient,
		Scheduler:     schedulerStatus(maintenance),
		APIKey:        apiKey,
		ReadOnly:      cfg.Auth.ReadOnly,
		Development:   cfg.IsDevelopment(),
		Version:       version,
	})

	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
			schedulerCancel()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}

// schedulerStatus avoids handing the router a typed nil.
func schedulerStatus(s *scheduler.ReconcileScheduler) http_controllers.ScheduleStatus {
	if s == nil {
		return nil
	}
	return s
}
