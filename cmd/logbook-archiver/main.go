// Logbook Archiver — переносит принятые записи из RabbitMQ в PostgreSQL.
//
// Archiver:
//   - Потребляет records.accepted
//   - Сохраняет записи в таблицу records (идемпотентно по id)
//   - По расписанию удаляет записи старше ARCHIVE_RETENTION
//   - Отдаёт записи архива на GET /records/{id} и /records/count
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shaiso/Logbook/internal/archiver"
	"github.com/shaiso/Logbook/internal/config"
	"github.com/shaiso/Logbook/internal/metrics"
	"github.com/shaiso/Logbook/internal/mq"
	"github.com/shaiso/Logbook/internal/repo"
	"github.com/shaiso/Logbook/internal/scheduler"
	"github.com/shaiso/Logbook/internal/telemetry"
)

func main() {
	logger := telemetry.SetupLogger()
	logger.Info("starting logbook-archiver")

	cfg, err := config.LoadArchiver()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := metrics.New()

	// DB pool
	pool, err := repo.NewPool(ctx, cfg.DBURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connected")

	records := repo.NewRecordRepo(pool)
	if err := records.EnsureSchema(ctx); err != nil {
		logger.Error("failed to prepare schema", "error", err)
		os.Exit(1)
	}

	// RabbitMQ
	conn, err := mq.NewConnection(cfg.RabbitMQURL, logger)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := mq.SetupTopology(ctx, conn); err != nil {
		logger.Error("failed to setup topology", "error", err)
		os.Exit(1)
	}

	// Очистка архива
	sched := scheduler.New(scheduler.Config{Logger: logger, Observer: m})
	if cfg.Retention > 0 {
		job := scheduler.PruneArchive(records, cfg.Retention, nil, logger)
		if err := sched.Add(scheduler.JobPruneArchive, cfg.PruneCron, job); err != nil {
			logger.Error("failed to schedule archive pruning", "error", err)
			os.Exit(1)
		}
	}
	sched.Start(ctx)
	defer sched.Stop()

	arch := archiver.New(archiver.Config{
		Store:    records,
		Observer: m,
		Logger:   logger,
	})

	consumer := mq.NewConsumer(conn, logger, mq.ConsumerConfig{
		Queue:    mq.QueueRecordsAccepted,
		Handler:  arch.Handle,
		Prefetch: cfg.Prefetch,
	})

	go func() {
		if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("consumer stopped", "error", err)
			cancel()
		}
	}()

	// HTTP mux: /healthz, /metrics, /records
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		if !conn.IsConnected() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("rabbitmq disconnected"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", m.Handler())
	archiver.RegisterRoutes(mux, records, logger)

	server := &http.Server{Addr: cfg.Addr, Handler: mux}
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	server.Shutdown(context.Background())
	logger.Info("logbook-archiver stopped")
}
