package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/RecipeApp/internal/config"
	"github.com/GoArmGo/RecipeApp/internal/core/ports"
	"github.com/GoArmGo/RecipeApp/internal/usecase"
)

// Режимы запуска
const (
	ModeServe  = "serve"
	ModeWorker = "worker"
)

type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	router   http.Handler
	consumer ports.RecipeEventConsumer
	files    usecase.FileStorage
	closers  []func() error
}

// NewApp собирает приложение. closers вызываются в Shutdown в обратном порядке.
func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	router http.Handler,
	consumer ports.RecipeEventConsumer,
	files usecase.FileStorage,
	closers ...func() error,
) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		router:   router,
		consumer: consumer,
		files:    files,
		closers:  closers,
	}
}

func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Run запускает приложение в заданном режиме до SIGINT/SIGTERM
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case ModeServe:
		err = runServer(ctx, a.cfg, a.router, a.logger)
	case ModeWorker:
		if a.consumer == nil {
			err = errors.New("worker mode requires RABBITMQ_URL")
			break
		}
		err = runWorker(ctx, a.consumer, a.files, a.logger)
	default:
		err = fmt.Errorf("unknown mode: %s (use %q or %q)", mode, ModeServe, ModeWorker)
	}

	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown failed", "error", closeErr)
	}
	return err
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
