// Package main provides the lumora binary entry point.
// Lumora is an LLM-orchestrated chart generation service: it analyzes
// tabular data through a multi-agent pipeline, builds render-ready
// chart plans, and edits existing chart configurations from natural
// language requests.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	// Register LLM providers via init()
	_ "github.com/iashutoshrawat/lumora/llm/providers"

	"github.com/spf13/cobra"

	"github.com/iashutoshrawat/lumora/agents"
	"github.com/iashutoshrawat/lumora/config"
	"github.com/iashutoshrawat/lumora/edit"
	"github.com/iashutoshrawat/lumora/httpapi"
	"github.com/iashutoshrawat/lumora/llm"
	"github.com/iashutoshrawat/lumora/model"
	"github.com/iashutoshrawat/lumora/plansink"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "lumora"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "lumora",
		Short: "LLM-orchestrated chart generation service",
		Long: `Lumora turns tabular data into consulting-grade chart plans.

It provides:
- A multi-agent analysis pipeline (transform, analyze, strategize, design)
- Chart plan building with grouping, aggregation, and pivoting
- Two-stage natural-language chart editing (patch or full regeneration)

Plans can optionally be published to NATS for downstream renderers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, logLevel, addr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func run(configPath, logLevel, addr string) error {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(configPath, logger)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	registry := model.NewDefaultRegistry()
	if cfg.Model.RegistryPath != "" {
		registry, err = model.LoadFromFile(cfg.Model.RegistryPath)
		if err != nil {
			return fmt.Errorf("load model registry: %w", err)
		}
		logger.Info("Model registry loaded", "path", cfg.Model.RegistryPath)
	}

	caller := llm.NewClient(registry,
		llm.WithLogger(logger),
		llm.WithHTTPClient(&http.Client{Timeout: cfg.Model.Timeout}),
	)

	pipeline := agents.NewPipeline(caller,
		agents.WithLogger(logger),
		agents.WithRetry(cfg.Retry.MaxAttempts-1, cfg.Retry.BackoffBase),
	)
	editor := edit.NewEditor(caller,
		edit.WithLogger(logger),
		edit.WithHistoryLimit(cfg.Edit.HistoryLimit),
	)

	sink, err := plansink.New(cfg.NATS.URL, cfg.NATS.Subject, plansink.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("plan sink: %w", err)
	}
	defer sink.Close()

	mux := http.NewServeMux()
	handler := httpapi.NewHandler(pipeline, editor,
		httpapi.WithLogger(logger),
		httpapi.WithSink(sink),
	)
	handler.Register(mux)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Lumora listening", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-sigCh:
		logger.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// loadConfig prefers an explicit path; otherwise the layered loader
// walks defaults, user config, and the project file.
func loadConfig(configPath string, logger *slog.Logger) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.NewLoader(logger).Load()
}
