package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/resume-analyzer/internal/application"
	appai "github.com/bryanwahyu/resume-analyzer/internal/application/ai"
	appresume "github.com/bryanwahyu/resume-analyzer/internal/application/resume"
	"github.com/bryanwahyu/resume-analyzer/internal/config"
	"github.com/bryanwahyu/resume-analyzer/internal/infra/extract"
	"github.com/bryanwahyu/resume-analyzer/internal/infra/httpserver"
	"github.com/bryanwahyu/resume-analyzer/internal/infra/memory"
	"github.com/bryanwahyu/resume-analyzer/internal/logger"
	"github.com/bryanwahyu/resume-analyzer/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		// logger belum ada, pakai stderr
		os.Stderr.WriteString("config load error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		os.Stderr.WriteString("logger init error: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checks := map[string]middleware.HealthChecker{}

	// init document storage
	docs, err := openDocuments(ctx, cfg)
	if err != nil {
		log.Fatal("storage init error", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	checks["storage"] = docs

	// init archive (optional)
	archive, closeArchive, err := openArchive(ctx, cfg)
	if err != nil {
		log.Fatal("archive init error", zap.String("driver", cfg.Archive.Driver), zap.Error(err))
	}
	defer closeArchive()
	if archive != nil {
		checks["archive"] = archive
	}

	metrics := middleware.NewMetrics()
	extractor := extract.NewPlainText()

	// init service
	store := memory.NewStore()
	metrics.TrackStored(store.Len)

	svc := &appresume.Service{
		Store:     store,
		Documents: docs,
		Extractor: extractor,
		Clock:     application.SystemClock{},
		Log:       log,
		Observe:   metrics.ObserveAnalysis,
	}
	if archive != nil {
		svc.Archive = archive
	}

	reviewer := newReviewer(cfg)
	aiSvc := appai.NewService(reviewer, log)

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.RefillRate)
	go limiter.PruneEvery(ctx, 5*time.Minute, 10*time.Minute)

	// init router
	handler := httpserver.NewRouter(svc, aiSvc, httpserver.Options{
		Log:            log,
		Metrics:        metrics,
		Limiter:        limiter,
		Checks:         checks,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Extractor:      extractor,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// run server
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.Storage.Driver),
			zap.String("archive", cfg.Archive.Driver),
			zap.Bool("ai", cfg.AI.Enabled && cfg.AI.APIKey != ""),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("shutting down server...")
	cancel()

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}
