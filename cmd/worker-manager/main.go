// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"research-crew/internal/bootstrap"
	"research-crew/internal/common/aws"
	"research-crew/internal/common/camunda"
	"research-crew/internal/common/config"
	"research-crew/internal/common/logger"
	"research-crew/internal/common/observability"
	"research-crew/internal/crew"

	es "research-crew/internal/workers/communication/email-send"
	rn "research-crew/internal/workers/communication/report-notify"
	rr "research-crew/internal/workers/pipeline/render-report"
	rs "research-crew/internal/workers/pipeline/run-stage"
)

// jobHandler is what every worker package's Handler offers.
type jobHandler interface {
	camunda.JobHandler
	GetTaskType() string
	IsEnabled() bool
}

type registration struct {
	handler       jobHandler
	maxJobsActive int
	timeout       time.Duration
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.NewFromConfig(cfg.Logging)
	if err != nil {
		zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting worker manager...")

	obs, err := observability.New("worker-manager")
	if err != nil {
		zapLog.Warn("run metrics unavailable", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = bootstrap.RetryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(camunda.ClientConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Pipeline ---
	searcher, closeSearch := bootstrap.Searcher(ctx, cfg, log)
	defer closeSearch()

	set, err := bootstrap.ToolSet(searcher, log)
	if err != nil {
		zapLog.Fatal("tool set invalid", zap.Error(err))
	}
	executor, err := bootstrap.Executor(cfg, set, log, crew.WithRecorder(obs))
	if err != nil {
		zapLog.Fatal("pipeline invalid", zap.Error(err))
	}

	sinks, closeSinks := bootstrap.Sinks(ctx, cfg, log)
	defer closeSinks()

	// --- Handlers ---
	var handlers []registration

	stageHandlers, err := rs.DefaultHandlers(cfg, executor, log)
	if err != nil {
		zapLog.Fatal("failed to create stage handlers", zap.Error(err))
	}
	for _, h := range stageHandlers {
		handlers = append(handlers, registration{h, h.GetConfig().MaxJobsActive, h.GetConfig().Timeout})
	}

	render, err := rr.NewHandler(rr.HandlerOptions{
		AppConfig: cfg,
		Pipeline:  executor.Pipeline(),
		Sinks:     sinks,
		Logger:    log,
	})
	if err != nil {
		zapLog.Fatal("failed to create render-report handler", zap.Error(err))
	}
	handlers = append(handlers, registration{render, render.GetConfig().MaxJobsActive, render.GetConfig().Timeout})

	mail, err := es.NewHandler(es.HandlerOptions{
		AppConfig: cfg,
		Camunda:   zeebe,
		Transport: bootstrap.MailTransport(ctx, cfg, log),
		Logger:    log,
	})
	if err != nil {
		zapLog.Fatal("failed to create email-send handler", zap.Error(err))
	}
	handlers = append(handlers, registration{mail, mail.GetConfig().MaxJobsActive, mail.GetConfig().Timeout})

	if notifyCfg := rn.ConfigFromApp(cfg); notifyCfg.Enabled {
		snsClient, err := aws.NewSNSClient(ctx, notifyCfg.AWSRegion)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		notify, err := rn.NewHandler(notifyCfg, snsClient, log)
		if err != nil {
			zapLog.Fatal("failed to create report-notify handler", zap.Error(err))
		}
		handlers = append(handlers, registration{notify, notifyCfg.MaxJobsActive, notifyCfg.Timeout})
	}

	// --- Start Workers ---
	var workers []*camunda.CamundaWorker
	for _, reg := range handlers {
		h := reg.handler
		if !h.IsEnabled() {
			zapLog.Info("worker disabled", zap.String("taskType", h.GetTaskType()))
			continue
		}
		w := camunda.NewWorker(
			zeebe.GetClient(),
			h.GetTaskType(),
			reg.maxJobsActive,
			reg.timeout,
			h,
			zapLog,
		)
		w.Start()
		workers = append(workers, w)
	}
	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := zeebe.HealthCheck(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Metrics.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop(shutdownCtx)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping metrics server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
