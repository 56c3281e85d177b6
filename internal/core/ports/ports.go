package ports

import (
	"context"

	"mettagraph/internal/data/history"
	"mettagraph/internal/engine/graph"
)

// AnalyzeRequest is one corpus analysis invocation from a driving adapter
// (CLI, watcher, or an external web layer).
type AnalyzeRequest struct {
	Text  string
	Label string // optional source name recorded with history snapshots
}

// AnalyzeResponse carries the immutable result plus run bookkeeping.
type AnalyzeResponse struct {
	Result     *graph.AnalysisResult
	RunID      string
	CorpusHash string
	FromCache  bool
}

// AnalysisService is the core-facing contract consumed by the excluded
// web/CLI layers: text plus configuration in, AnalysisResult out.
type AnalysisService interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (AnalyzeResponse, error)
	Close(ctx context.Context) error
}

// HistoryStore abstracts snapshot persistence for run comparison.
type HistoryStore interface {
	Record(ctx context.Context, snap history.Snapshot) (history.Snapshot, error)
	Recent(ctx context.Context, limit int) ([]history.Snapshot, error)
}
