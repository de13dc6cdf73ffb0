// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/unclebandit/contacts-backend/internal/config"
	"github.com/unclebandit/contacts-backend/internal/controller"
	"github.com/unclebandit/contacts-backend/internal/handler"
	"github.com/unclebandit/contacts-backend/internal/logger"
	"github.com/unclebandit/contacts-backend/internal/queue"
	"github.com/unclebandit/contacts-backend/internal/repository"
	"github.com/unclebandit/contacts-backend/internal/service"
)

func main() {
	dotenvErr := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Logfile: cfg.LogFile})
	if dotenvErr != nil {
		log.Warn("no .env file found, relying on OS environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	repo, closeRepo, err := repository.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	defer closeRepo()

	q, closeQueue, err := openQueue(cfg, log)
	if err != nil {
		return err
	}
	defer closeQueue()

	contactService := &service.ContactService{
		ContactRepo: repo,
		Queue:       q,
		Logger:      log,
	}
	contactController := &controller.ContactController{
		ContactService: contactService,
		Logger:         log,
	}

	srv := &http.Server{
		Addr: ":" + strconv.Itoa(cfg.Port),
		Handler: handler.NewRouter(handler.RouterOptions{
			Logger:     log,
			CORSOrigin: cfg.CORSOrigin,
			Store:      repo,
			API:        contactController.Routes,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", "addr", srv.Addr, "store", cfg.StoreDriver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openQueue uses RabbitMQ when AMQP_URL is set. Otherwise events go through
// an in-process queue into a Worker, which appends them to AUDIT_FILE when
// one is configured. The returned function drains pending events.
func openQueue(cfg config.Config, log *slog.Logger) (queue.Queue, func(), error) {
	if cfg.AMQPURL != "" {
		q, err := queue.DialAMQP(cfg.AMQPURL, log)
		if err != nil {
			return nil, nil, err
		}
		return q, func() { q.Close() }, nil
	}

	var (
		onEvent    func(queue.ContactEvent) error
		closeAudit = func() error { return nil }
	)
	if cfg.AuditFile != "" {
		f, err := os.OpenFile(cfg.AuditFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open audit file: %w", err)
		}
		onEvent, closeAudit = service.NewAuditLog(f).Record, f.Close
	}

	events := make(chan queue.ContactEvent, 64)
	q := queue.NewInMemoryQueue(log)
	if err := queue.StartContactEventSubscriber(q, events, log); err != nil {
		closeAudit()
		return nil, nil, err
	}

	worker := service.NewWorker(log, events, onEvent)
	done := make(chan struct{})
	go func() {
		defer close(done)
		worker.Start()
	}()

	return q, func() {
		q.Wait()
		close(events)
		<-done
		closeAudit()
		log.Info("contact events handled", "counts", worker.Counts())
	}, nil
}
