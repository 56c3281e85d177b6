package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gobwas/glob"

	"mettagraph/internal/core/app"
	"mettagraph/internal/core/config"
	"mettagraph/internal/core/ports"
	"mettagraph/internal/data/history"
	"mettagraph/internal/engine/graph"
	"mettagraph/internal/output"
	"mettagraph/internal/shared/util"
	"mettagraph/internal/watcher"
)

// App wires the analysis service to the terminal surfaces: one-shot runs,
// watch mode, and the TUI.
type App struct {
	Config     *config.Config
	Service    *app.Service
	store      *history.Store
	paths      []string
	jsonOut    bool
	teaProgram *tea.Program
}

func NewApp(cfg *config.Config, paths []string, jsonOut bool) (*App, error) {
	var store *history.Store
	if cfg.History.Enabled {
		s, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		store = s
	}

	var port ports.HistoryStore
	if store != nil {
		port = store
	}
	svc, err := app.NewService(cfg, port, slog.Default())
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}

	return &App{
		Config:  cfg,
		Service: svc,
		store:   store,
		paths:   paths,
		jsonOut: jsonOut,
	}, nil
}

func (a *App) Close(ctx context.Context) error {
	return a.Service.Close(ctx)
}

// ReadCorpus concatenates every corpus file under the configured paths.
// With no paths it reads stdin, matching pipe-style usage.
func (a *App) ReadCorpus() (string, string, error) {
	if len(a.paths) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "stdin", nil
	}

	files, err := a.collectFiles()
	if err != nil {
		return "", "", err
	}

	var b strings.Builder
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", "", fmt.Errorf("read corpus file %q: %w", path, err)
		}
		b.Write(data)
		if len(data) > 0 && data[len(data)-1] != '\n' {
			b.WriteByte('\n')
		}
	}

	label := a.paths[0]
	if len(a.paths) > 1 {
		label = fmt.Sprintf("%s (+%d)", a.paths[0], len(a.paths)-1)
	}
	return b.String(), label, nil
}

func (a *App) collectFiles() ([]string, error) {
	excludes := make([]glob.Glob, 0, len(a.Config.Watch.Exclude))
	for _, pattern := range a.Config.Watch.Exclude {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		excludes = append(excludes, g)
	}

	excluded := func(path string) bool {
		base := filepath.Base(path)
		for _, g := range excludes {
			if g.Match(base) {
				return true
			}
		}
		return false
	}

	var files []string
	for _, path := range a.paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.Walk(path, func(p string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				if excluded(p) && p != path {
					return filepath.SkipDir
				}
				return nil
			}
			if !excluded(p) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// Analyze runs the pipeline over the current corpus and writes any
// configured render targets.
func (a *App) Analyze(ctx context.Context) (ports.AnalyzeResponse, error) {
	text, label, err := a.ReadCorpus()
	if err != nil {
		return ports.AnalyzeResponse{}, err
	}

	resp, err := a.Service.Analyze(ctx, ports.AnalyzeRequest{Text: text, Label: label})
	if err != nil {
		return ports.AnalyzeResponse{}, err
	}

	targets := output.Targets{
		DOT:     a.Config.Output.DOT,
		Mermaid: a.Config.Output.Mermaid,
		TSV:     a.Config.Output.TSV,
		JSON:    a.Config.Output.JSON,
	}
	if err := output.WriteAll(targets, resp.Result); err != nil {
		slog.Error("failed to write outputs", "error", err)
	}

	return resp, nil
}

// HandleChanges is the watcher callback: re-read, re-analyze, refresh
// whichever surface is active.
func (a *App) HandleChanges(paths []string) {
	start := time.Now()
	resp, err := a.Analyze(context.Background())
	if err != nil {
		slog.Error("re-analysis failed", "error", err, "changed", len(paths))
		return
	}

	if a.teaProgram != nil {
		a.teaProgram.Send(updateMsg{result: resp.Result})
		return
	}
	a.PrintSummary(resp.Result, time.Since(start))
	a.PrintCorpusHistory(context.Background(), resp)
}

func (a *App) StartWatcher() error {
	limiter := util.NewLimiter(a.Config.Watch.Rate, a.Config.Watch.Burst)
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Watch.Exclude,
		limiter,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}
	// The watcher runs for the process lifetime; no Close here.
	return w.Watch(a.paths)
}

func (a *App) RunUI(initial *graph.AnalysisResult) error {
	m := initialModel()
	p := tea.NewProgram(m, tea.WithAltScreen())
	a.teaProgram = p

	go func() {
		a.teaProgram.Send(updateMsg{result: initial})
	}()

	_, err := p.Run()
	return err
}

// PrintHistory lists the most recent recorded runs, newest first.
func (a *App) PrintHistory(ctx context.Context, limit int) error {
	if a.store == nil {
		return fmt.Errorf("history is disabled, enable [history] in the config")
	}
	snaps, err := a.store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Println("No recorded runs yet.")
		return nil
	}

	fmt.Printf("%-36s  %-19s  %6s  %6s  %6s  %7s  %s\n",
		"RUN", "WHEN", "NODES", "EDGES", "COMPS", "ORPHANS", "LABEL")
	for _, s := range snaps {
		fmt.Printf("%-36s  %-19s  %6d  %6d  %6d  %7d  %s\n",
			s.RunID,
			s.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			s.NodeCount, s.EdgeCount, s.ComponentCount, s.OrphanCount,
			s.Label)
	}
	return nil
}

// PrintCorpusHistory notes earlier recorded runs of the exact same corpus,
// so a summary shows whether the counts moved since last time.
func (a *App) PrintCorpusHistory(ctx context.Context, resp ports.AnalyzeResponse) {
	if a.store == nil {
		return
	}
	snaps, err := a.store.ForHash(ctx, resp.CorpusHash)
	if err != nil {
		slog.Warn("failed to query corpus history", "error", err)
		return
	}

	prior := priorRuns(snaps, resp.RunID)
	if len(prior) == 0 {
		return
	}

	prev := prior[0]
	fmt.Printf("📜 Corpus analyzed %d times before, last %s (%d nodes, %d edges)\n",
		len(prior),
		prev.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		prev.NodeCount, prev.EdgeCount)
}

// priorRuns drops the current run from a newest-first snapshot list. A
// cache-hit run is never recorded, so its id simply never matches.
func priorRuns(snaps []history.Snapshot, runID string) []history.Snapshot {
	prior := make([]history.Snapshot, 0, len(snaps))
	for _, s := range snaps {
		if s.RunID != runID {
			prior = append(prior, s)
		}
	}
	return prior
}

// PrintJSON writes the full result to stdout for pipe consumers.
func (a *App) PrintJSON(result *graph.AnalysisResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func (a *App) PrintSummary(result *graph.AnalysisResult, duration time.Duration) {
	stats := result.Stats

	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Graph: %d nodes, %d edges in %v\n", stats.NodeCount, stats.EdgeCount, duration.Round(time.Millisecond))

	if stats.ComponentCount > 0 {
		fmt.Printf("🔗 %d connected components (largest: %d nodes):\n", stats.ComponentCount, stats.LargestComponentSize)
		for _, c := range result.Components {
			if c.Size == 1 {
				continue
			}
			members := strings.Join(c.MemberIDs, ", ")
			fmt.Printf("   [%d] %s\n", c.ID, util.Truncate(members, 100))
		}
	} else {
		fmt.Println("❔ Empty graph, nothing to analyze.")
	}

	if len(result.Orphans) > 0 {
		fmt.Printf("🏝️  %d orphan nodes: %s\n", len(result.Orphans), util.Truncate(strings.Join(result.Orphans, ", "), 100))
	} else if stats.NodeCount > 0 {
		fmt.Println("✅ No orphan nodes.")
	}

	if sizes := sizeSummary(result.SizeDistribution); sizes != "" {
		fmt.Printf("📊 Component sizes: %s\n", sizes)
	}

	if len(result.Warnings) > 0 {
		fmt.Printf("⚠️  %d parse warnings:\n", len(result.Warnings))
		for _, w := range result.Warnings {
			if w.Line > 0 {
				fmt.Printf("   line %d: %s\n", w.Line, w.Message)
			} else {
				fmt.Printf("   %s\n", w.Message)
			}
		}
	}
	fmt.Println(strings.Repeat("-", 40))
}

// sizeSummary renders the size histogram as "size×count" pairs in
// ascending size order.
func sizeSummary(distribution map[int]int) string {
	if len(distribution) == 0 {
		return ""
	}
	sizes := make([]int, 0, len(distribution))
	for size := range distribution {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)

	parts := make([]string, 0, len(sizes))
	for _, size := range sizes {
		parts = append(parts, fmt.Sprintf("%d×%d", size, distribution[size]))
	}
	return strings.Join(parts, ", ")
}
