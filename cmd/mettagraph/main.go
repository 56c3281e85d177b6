package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"mettagraph/internal/core/app"
	"mettagraph/internal/core/config"
	"mettagraph/internal/shared/observability"
	"mettagraph/internal/ui/cli"
)

var (
	configPath  = flag.String("config", "./mettagraph.toml", "Path to config file")
	once        = flag.Bool("once", false, "Run single analysis and exit")
	watch       = flag.Bool("watch", false, "Keep running and re-analyze on file changes")
	ui          = flag.Bool("ui", false, "Enable terminal UI mode")
	jsonOut     = flag.Bool("json", false, "Print the full analysis result as JSON to stdout")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	version     = flag.Bool("version", false, "Print version and exit")
	metricsAddr = flag.String("metrics-addr", "", "Override metrics/health listen address")
	historyN    = flag.Int("history", 0, "Print the N most recent recorded runs and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("mettagraph v%s\n", VERSION)
		os.Exit(0)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	logOutput := os.Stderr
	if *ui {
		// In UI mode, avoid stderr logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err == nil {
			if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600); err == nil {
				logOutput = f
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		// The default path is optional; an explicit or malformed config is not.
		if *configPath == "./mettagraph.toml" && os.IsNotExist(err) {
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}
	config.ApplyEnvOverrides(cfg)
	if *metricsAddr != "" {
		cfg.Observability.MetricsAddr = *metricsAddr
	}

	if *once && (*watch || *ui) {
		fmt.Fprintln(os.Stderr, "--once cannot be combined with --watch or --ui")
		os.Exit(1)
	}

	paths := flag.Args()
	if len(paths) == 0 {
		paths = cfg.Watch.Paths
	}
	if len(paths) == 0 {
		if *watch || *ui {
			fmt.Fprintln(os.Stderr, "watch mode needs corpus paths (arguments or [watch] paths in config)")
			os.Exit(1)
		}
		// stdin corpus cannot be watched
		*once = true
	}
	if !*watch && !*ui {
		*once = true
	}

	ctx := context.Background()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Observability.OTLPEndpoint)
	if err != nil {
		slog.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}
	defer shutdownTracing(ctx)

	a, err := NewApp(cfg, paths, *jsonOut)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close(ctx)

	if *historyN > 0 {
		if err := a.PrintHistory(ctx, *historyN); err != nil {
			slog.Error("failed to print history", "error", err)
			os.Exit(1)
		}
		return
	}

	if cfg.Observability.MetricsAddr != "" {
		obs := cli.NewObservabilityServer(cfg.Observability.MetricsAddr, app.NewHealthService(a.Service))
		if err := obs.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			os.Exit(1)
		}
		defer obs.Stop(ctx)
	}

	resp, err := a.Analyze(ctx)
	if err != nil {
		slog.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	if *jsonOut {
		if err := a.PrintJSON(resp.Result); err != nil {
			slog.Error("failed to print result", "error", err)
			os.Exit(1)
		}
	} else if !*ui {
		a.PrintSummary(resp.Result, 0)
		a.PrintCorpusHistory(ctx, resp)
	}

	if *once {
		return
	}

	if err := a.StartWatcher(); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	if *ui {
		if err := a.RunUI(resp.Result); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
	} else {
		select {}
	}
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "mettagraph", "mettagraph.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "mettagraph", "mettagraph.log")
	}

	return "mettagraph.log"
}
