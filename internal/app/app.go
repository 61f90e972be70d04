package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	config "github.com/vismatch/go-backend/internal/cfg"
	v1Http "github.com/vismatch/go-backend/internal/delivery/v1/http"
	"github.com/vismatch/go-backend/internal/infrastructure/imagga"
	"github.com/vismatch/go-backend/internal/repository/catalogfile"
	"github.com/vismatch/go-backend/internal/usecase"
	"github.com/vismatch/go-backend/pkg/closer"
	"github.com/vismatch/go-backend/pkg/logger"
)

func Run() {
	logger := logger.NewSlogLogger()

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	// Каталог читается один раз при старте: на стороне поиска он read-only
	catalogRepo := catalogfile.NewCatalogRepo(cfg.Catalog.CatalogPath, logger)
	if err := catalogRepo.Load(); err != nil {
		logger.Errorf(err, "failed to load catalog")
		os.Exit(1)
	}

	recognition := imagga.NewImaggaService(cfg.Imagga, logger)

	searchUC := usecase.NewSearchUC(
		recognition,
		catalogRepo,
		cfg.Imagga.SimilarityLimit,
		logger,
	)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, logger)
	router.Init(searchUC, catalogRepo, recognition)

	httpSrv := v1Http.NewServer(r, cfg.Http)

	cl := closer.NewCloser(0)
	cl.Add(httpSrv.Stop)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP server started on port %s", cfg.Http.Port)
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := cl.Close(shutdownCtx); err != nil {
		logger.Errorf(err, "shutdown error")
	} else {
		logger.Infof("HTTP server stopped")
	}

	logger.Infof("Application shutdown complete")
	if appErr != nil {
		os.Exit(1)
	}
}
