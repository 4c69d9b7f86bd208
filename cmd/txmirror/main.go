// Package main is the entry point for the txmirror CLI.
//
// txmirror reads commands from a file (first argument) or stdin, records the
// transitions the marketplace API reports for each transaction and answers
// questions about them with the client-side process mirror.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"txmirror/internal/app"
	"txmirror/internal/config"
	"txmirror/internal/metrics"
	"txmirror/internal/process"
	"txmirror/internal/process/purchase"
	"txmirror/internal/service"
	"txmirror/internal/store"
)

func main() {
	cfg, err := config.Load(os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cfg, os.Stderr)

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("shutdown requested", "signal", sig.String())
		os.Exit(0)
	}()

	var m metrics.Metrics = metrics.NoopMetrics{}
	if cfg.MetricsAddr != "" {
		m = metrics.NewPrometheus(metrics.DefaultConfig())
		go serveMetrics(cfg.MetricsAddr, logger)
	}

	registry, err := process.NewRegistry(purchase.Process)
	if err != nil {
		logger.Error("building process registry", "error", err)
		os.Exit(1)
	}

	processor, err := service.NewProcessor(store.NewMemoryStore(), registry, service.Options{
		DefaultProcess: cfg.Process,
		Logger:         logger,
		Metrics:        m,
	})
	if err != nil {
		logger.Error("creating processor", "error", err)
		os.Exit(1)
	}

	// Determine input source
	var input io.Reader = os.Stdin
	if len(os.Args) > 1 {
		file, err := os.Open(os.Args[1])
		if err != nil {
			logger.Error("cannot open input", "path", os.Args[1], "error", err)
			os.Exit(1)
		}
		defer file.Close()
		input = file
	}

	runner := app.NewRunner(processor, input, os.Stdout)
	if err := runner.Run(); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	level, _ := cfg.Level()
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func serveMetrics(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics listener stopped", "error", err)
	}
}
