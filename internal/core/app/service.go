package app

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"mettagraph/internal/core/config"
	"mettagraph/internal/core/ports"
	"mettagraph/internal/data/history"
	"mettagraph/internal/engine/graph"
	"mettagraph/internal/engine/parser"
	"mettagraph/internal/shared/observability"
	"mettagraph/internal/shared/util"
)

// Service is the concrete analysis pipeline behind ports.AnalysisService:
// parse, build, connectivity, assemble. Results are cached by corpus
// content hash so unchanged input in watch mode is free, and every computed
// run is optionally recorded to the history store.
type Service struct {
	cfg      *config.Config
	parser   *parser.Parser
	builder  *graph.Builder
	cache    *lruCache[string, *graph.AnalysisResult]
	store    ports.HistoryStore
	log      *slog.Logger
	hashSalt []string
}

var _ ports.AnalysisService = (*Service)(nil)

// NewService builds the pipeline from validated configuration. The history
// store is optional; pass nil to disable run recording.
func NewService(cfg *config.Config, store ports.HistoryStore, log *slog.Logger) (*Service, error) {
	if log == nil {
		log = slog.Default()
	}

	p, err := parser.New(cfg.ParserOptions())
	if err != nil {
		return nil, err
	}
	b, err := graph.NewBuilder(cfg.GraphRules())
	if err != nil {
		return nil, err
	}

	return &Service{
		cfg:      cfg,
		parser:   p,
		builder:  b,
		cache:    newLRUCache[string, *graph.AnalysisResult](cfg.Cache.Capacity),
		store:    store,
		log:      log,
		hashSalt: hashSalt(cfg),
	}, nil
}

// hashSalt folds every setting that changes analysis output into the cache
// key, so a config edit between runs never serves a stale result.
func hashSalt(cfg *config.Config) []string {
	salt := []string{
		cfg.Parse.Dialect,
		strconv.FormatBool(cfg.Parse.Strict),
		strings.Join(cfg.Parse.BracketPairs, ""),
		strings.Join(cfg.Parse.CommentPrefixes, " "),
		cfg.Rules.Default,
	}
	patterns := make([]string, 0, len(cfg.Rules.Predicates))
	for pattern, mode := range cfg.Rules.Predicates {
		patterns = append(patterns, pattern+"="+mode)
	}
	sort.Strings(patterns)
	return append(salt, patterns...)
}

func (s *Service) Analyze(ctx context.Context, req ports.AnalyzeRequest) (ports.AnalyzeResponse, error) {
	ctx, span := observability.Tracer.Start(ctx, "analyze")
	defer span.End()

	hash := util.ContentHash(req.Text, s.hashSalt...)
	span.SetAttributes(attribute.String("corpus.hash", hash))

	if cached, ok := s.cache.get(hash); ok {
		observability.ResultCacheHits.Inc()
		span.SetAttributes(attribute.Bool("cache.hit", true))
		s.log.Debug("analysis served from cache", "hash", util.Truncate(hash, 12))
		return ports.AnalyzeResponse{
			Result:     cached,
			RunID:      uuid.NewString(),
			CorpusHash: hash,
			FromCache:  true,
		}, nil
	}
	observability.ResultCacheMisses.Inc()

	result, err := s.run(ctx, req.Text)
	if err != nil {
		span.RecordError(err)
		return ports.AnalyzeResponse{}, err
	}
	s.cache.put(hash, result)

	resp := ports.AnalyzeResponse{
		Result:     result,
		RunID:      uuid.NewString(),
		CorpusHash: hash,
	}
	s.record(ctx, resp, req.Label)
	return resp, nil
}

// run executes one full pipeline pass: parse, graph build, connectivity.
func (s *Service) run(ctx context.Context, text string) (*graph.AnalysisResult, error) {
	_, span := observability.Tracer.Start(ctx, "pipeline")
	defer span.End()

	parseStart := time.Now()
	parsed, err := s.parser.Parse(text)
	observability.ParseDuration.WithLabelValues(s.cfg.Parse.Dialect).Observe(time.Since(parseStart).Seconds())
	if err != nil {
		return nil, err
	}
	if len(parsed.Warnings) > 0 {
		observability.ParseWarnings.Add(float64(len(parsed.Warnings)))
		for _, w := range parsed.Warnings {
			s.log.Warn("parse warning", "line", w.Line, "message", w.Message)
		}
	}
	if len(parsed.Atoms) == 0 {
		parsed.Warnings = append(parsed.Warnings, parser.Warning{
			Message: "no expressions found in input",
		})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buildStart := time.Now()
	g := s.builder.Build(parsed.Atoms)
	observability.AnalysisDuration.WithLabelValues("build").Observe(time.Since(buildStart).Seconds())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	connectStart := time.Now()
	analysis := graph.Analyze(g)
	observability.AnalysisDuration.WithLabelValues("connectivity").Observe(time.Since(connectStart).Seconds())

	observability.GraphNodes.Set(float64(g.NodeCount()))
	observability.GraphEdges.Set(float64(g.EdgeCount()))

	result := graph.Assemble(g, analysis, parsed.Warnings)
	s.log.Info("corpus analyzed",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"components", result.Stats.ComponentCount,
		"orphans", result.Stats.OrphanCount,
		"warnings", len(result.Warnings),
	)
	return result, nil
}

// record persists a run snapshot. Failures are logged, never fatal: history
// is an audit trail, not part of the analysis contract.
func (s *Service) record(ctx context.Context, resp ports.AnalyzeResponse, label string) {
	if s.store == nil {
		return
	}
	snap := history.Snapshot{
		RunID:            resp.RunID,
		CorpusHash:       resp.CorpusHash,
		Label:            label,
		NodeCount:        resp.Result.Stats.NodeCount,
		EdgeCount:        resp.Result.Stats.EdgeCount,
		ComponentCount:   resp.Result.Stats.ComponentCount,
		OrphanCount:      resp.Result.Stats.OrphanCount,
		LargestComponent: resp.Result.Stats.LargestComponentSize,
		WarningCount:     len(resp.Result.Warnings),
	}
	if _, err := s.store.Record(ctx, snap); err != nil {
		s.log.Error("record history snapshot", "error", err)
	}
}

func (s *Service) Close(context.Context) error {
	if closer, ok := s.store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
