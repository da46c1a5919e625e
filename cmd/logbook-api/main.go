// Logbook API — принимает сообщения на POST /log.
//
// API:
//   - Пишет запись в файл журнала с ротацией по размеру
//   - Публикует record.accepted в RabbitMQ (если RABBITMQ_URL задан)
//   - Считает message_count_total{content} и отдаёт /metrics
//   - Отдаёт страницу для ручной отправки на GET /
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shaiso/Logbook/internal/api"
	"github.com/shaiso/Logbook/internal/config"
	"github.com/shaiso/Logbook/internal/metrics"
	"github.com/shaiso/Logbook/internal/mq"
	"github.com/shaiso/Logbook/internal/recorder"
	"github.com/shaiso/Logbook/internal/scheduler"
	"github.com/shaiso/Logbook/internal/sink"
	"github.com/shaiso/Logbook/internal/telemetry"
)

func main() {
	startTime := time.Now()

	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting logbook-api")

	cfg, err := config.LoadAPI()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := metrics.New()

	// Файловый журнал
	fileSink, err := sink.NewFile(sink.FileConfig{
		Path:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	})
	if err != nil {
		logger.Error("failed to open log file", "path", cfg.LogFile, "error", err)
		os.Exit(1)
	}
	defer fileSink.Close()

	sinks := sink.NewMulti(sink.Named{Name: "file", Sink: fileSink})

	// RabbitMQ (опционально)
	if cfg.RabbitMQURL != "" {
		if publisher := connectBroker(ctx, cfg.RabbitMQURL, logger); publisher != nil {
			sinks.Add("rabbitmq", publisher)
		}
	}
	logger.Info("sinks configured", "sinks", sinks.Names(), "log_file", fileSink.Path())

	rec := recorder.New(recorder.Config{
		Sink:            sinks,
		Counter:         m,
		ErrorObserver:   m,
		FailOnSinkError: cfg.FailOnSinkError,
		Logger:          logger,
	})

	// Принудительная ротация по расписанию
	sched := scheduler.New(scheduler.Config{Logger: logger, Observer: m})
	if cfg.LogRotateCron != "" {
		if err := sched.Add(scheduler.JobRotateLog, cfg.LogRotateCron, scheduler.RotateLog(fileSink)); err != nil {
			logger.Error("failed to schedule log rotation", "error", err)
			os.Exit(1)
		}
	}
	sched.Start(ctx)
	defer sched.Stop()

	handler := api.NewHandler(api.Config{
		Recorder:     rec,
		Metrics:      m,
		Logger:       logger,
		MaxBodyBytes: cfg.MaxBodyBytes,
		TrustProxy:   cfg.TrustProxy,
		StartTime:    startTime,
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}

// connectBroker подключается к RabbitMQ и готовит publisher.
// При недоступности брокера API работает только с файлом.
func connectBroker(ctx context.Context, url string, logger *slog.Logger) *mq.Publisher {
	conn, err := mq.NewConnection(url, logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, running with file sink only", "error", err)
		return nil
	}

	if err := mq.SetupTopology(ctx, conn); err != nil {
		logger.Warn("failed to setup topology", "error", err)
	}

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	return mq.NewPublisher(conn, logger)
}
