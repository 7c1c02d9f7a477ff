package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/thesavant42/quakewatch/internal/api"
	"github.com/thesavant42/quakewatch/internal/config"
	"github.com/thesavant42/quakewatch/internal/db"
	"github.com/thesavant42/quakewatch/internal/loader"
	"github.com/thesavant42/quakewatch/internal/models"
	"github.com/thesavant42/quakewatch/internal/observability"
	"github.com/thesavant42/quakewatch/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	// Parse command line flags
	configPath := flag.String("config", config.DefaultPath, "Path to YAML config file")
	dbPath := flag.String("db", "", "Path to SQLite preferences database")
	endpoint := flag.String("endpoint", "", "Earthquake query endpoint")
	orderBy := flag.String("orderby", "", "Sort order for this run: time or magnitude")
	minMag := flag.String("minmag", "", "Minimum magnitude for this run")
	limit := flag.String("limit", "", "Number of earthquakes for this run")
	plain := flag.Bool("plain", false, "Print a one-shot report instead of the interactive list")
	exportPath := flag.String("export", "", "Markdown file for exports (plain mode writes it immediately)")
	noSplash := flag.Bool("no-splash", false, "Skip the splash screen")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn or error")
	flag.Parse()

	configSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configSet = true
		}
	})

	cfg, err := config.Load(*configPath, configSet)
	if err != nil {
		ui.PrintError(os.Stderr, fmt.Sprintf("Failed to load config: %v", err))
		return 1
	}
	overrideString(&cfg.DBPath, *dbPath)
	overrideString(&cfg.Endpoint, *endpoint)
	overrideString(&cfg.MetricsAddr, *metricsAddr)
	overrideString(&cfg.LogLevel, *logLevel)
	if err := cfg.Validate(); err != nil {
		ui.PrintError(os.Stderr, err.Error())
		return 1
	}

	logger, closeLog, err := newFileLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		ui.PrintError(os.Stderr, fmt.Sprintf("Failed to open log file: %v", err))
		return 1
	}
	defer closeLog()

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, logger)
		defer srv.Close()
	}

	// Initialize database
	database, err := db.New(cfg.DBPath)
	if err != nil {
		ui.PrintError(os.Stderr, fmt.Sprintf("Failed to initialize database: %v", err))
		return 1
	}
	defer database.Close()

	filter, err := database.LoadFilter(cfg.Defaults.Filter())
	if err != nil {
		logger.Warn("Failed to load saved preferences, using defaults", "err", err)
		filter = cfg.Defaults.Filter()
	}
	// Command-line filter values apply to this run only
	overrideString((*string)(&filter.OrderBy), *orderBy)
	overrideString(&filter.MinMagnitude, *minMag)
	overrideString(&filter.Limit, *limit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := api.NewClient(cfg.RequestTimeout, logger, metrics)
	quakeLoader := loader.New(client, logger, metrics)
	connectivity := func(ctx context.Context) bool {
		return api.CheckConnectivity(ctx, cfg.Endpoint, cfg.ConnectivityTimeout)
	}

	logger.Info("Starting", "endpoint", cfg.Endpoint, "filter", filter, "plain", *plain)

	if *plain {
		return runPlain(ctx, os.Stdout, quakeLoader, connectivity, cfg.Endpoint, filter, *exportPath)
	}

	if !*noSplash {
		if err := ui.ShowSplash(); err != nil {
			logger.Warn("Splash screen failed", "err", err)
		}
	}

	// Main application loop - the settings form returns here
	for {
		result, err := ui.RunQuakeList(ui.QuakeListOptions{
			Context:      ctx,
			Loader:       quakeLoader,
			BaseURL:      cfg.Endpoint,
			Filter:       filter,
			Connectivity: connectivity,
			Logger:       logger,
			ExportPath:   *exportPath,
		})
		if err != nil {
			ui.PrintError(os.Stderr, fmt.Sprintf("Interactive mode failed: %v", err))
			return 1
		}

		if result.Action != ui.ActionSettings {
			return 0
		}

		updated, saved, err := ui.RunSettingsForm(filter)
		if err != nil {
			ui.PrintError(os.Stderr, err.Error())
			return 1
		}
		if !saved {
			continue // Return to the list unchanged
		}
		filter = updated
		if err := database.SaveFilter(filter); err != nil {
			logger.Error("Failed to save preferences", "err", err)
			ui.PrintError(os.Stderr, fmt.Sprintf("Failed to save preferences: %v", err))
		}
	}
}

// runPlain prints a single report to w and returns the exit code
func runPlain(ctx context.Context, w io.Writer, l *loader.Loader, connectivity func(context.Context) bool, endpoint string, filter models.Filter, exportPath string) int {
	if !connectivity(ctx) {
		ui.PrintEmptyState(w, ui.MessageNoInternet)
		return 1
	}

	task := l.Start(ctx, api.BuildQueryURL(endpoint, filter))
	res, ok, err := ui.RunWithSpinner(ui.MessageLoading, task)
	if err != nil {
		ui.PrintError(w, err.Error())
		return 1
	}
	if !ok {
		return 130
	}

	rows := ui.NewQuakeRows(res.Earthquakes, time.Local, time.Now())
	ui.PrintHeader(w, filter, len(rows))
	if len(rows) == 0 {
		ui.PrintEmptyState(w, ui.MessageNoEarthquakes)
	} else {
		ui.PrintQuakeTable(w, rows)
	}

	if exportPath != "" {
		path, err := ui.ExportQuakesToMarkdown(rows, filter, exportPath, time.Now())
		if err != nil {
			ui.PrintError(w, err.Error())
			return 1
		}
		ui.PrintSuccess(w, "Exported to "+path)
	}
	return 0
}

// newFileLogger opens the log file for appending; the TUI owns the terminal
func newFileLogger(path, level string) (*log.Logger, func(), error) {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, nil, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, err
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "quakewatch",
		Level:           lvl,
	})
	return logger, func() { f.Close() }, nil
}

func serveMetrics(addr string, logger *log.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server stopped", "addr", addr, "err", err)
		}
	}()
	logger.Info("Serving metrics", "addr", addr)
	return srv
}

func overrideString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
