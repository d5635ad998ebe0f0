package app

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"ntf/internal/config"
	"ntf/internal/queue"
	"ntf/internal/sse"
	"ntf/internal/telemetry"
)

type App struct {
	cfg      *config.Config
	hub      *sse.Hub
	consumer queue.Consumer
	server   *http.Server
	logger   *zap.Logger
	wg       sync.WaitGroup

	mu       sync.Mutex
	shutdown telemetry.ShutdownFunc
}

func NewApp(cfg *config.Config, hub *sse.Hub, consumer queue.Consumer, router *gin.Engine, logger *zap.Logger) *App {
	return &App{
		cfg:      cfg,
		hub:      hub,
		consumer: consumer,
		server: &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: router,
		},
		logger: logger,
	}
}

// Run blocks serving HTTP until the server is shut down. The hub and the
// command consumer run alongside it until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	shutdown, err := telemetry.Init(ctx, a.cfg)
	if err != nil {
		a.logger.Warn("tracing disabled", zap.Error(err))
	} else {
		a.mu.Lock()
		a.shutdown = shutdown
		a.mu.Unlock()
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.hub.Run(ctx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.consumer.Start(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error("consumer stopped", zap.Error(err))
		}
	}()

	a.logger.Info("http server listening", zap.String("addr", a.cfg.HTTPAddr))
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("graceful shutdown started")
	shutdownErr := a.server.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		if shutdownErr != nil {
			return shutdownErr
		}
		return ctx.Err()
	}

	a.mu.Lock()
	flush := a.shutdown
	a.mu.Unlock()
	if flush != nil {
		if err := flush(ctx); err != nil {
			a.logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}

	a.logger.Info("graceful shutdown completed")
	return shutdownErr
}

func (a *App) Logger() *zap.Logger {
	return a.logger
}
