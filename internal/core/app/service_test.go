package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mettagraph/internal/core/config"
	"mettagraph/internal/core/ports"
	"mettagraph/internal/data/history"
)

func newTestService(t *testing.T, mutate func(*config.Config)) *Service {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	svc, err := NewService(cfg, nil, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close(context.Background()) })
	return svc
}

func TestServiceAnalyze_RoundTrip(t *testing.T) {
	svc := newTestService(t, nil)

	resp, err := svc.Analyze(context.Background(), ports.AnalyzeRequest{
		Text: "(likes Alice Bob)\n(likes Bob Carol)\nDave\n",
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Result)
	assert.False(t, resp.FromCache)
	assert.NotEmpty(t, resp.RunID)
	assert.NotEmpty(t, resp.CorpusHash)

	stats := resp.Result.Stats
	assert.Equal(t, 4, stats.NodeCount)
	assert.Equal(t, 2, stats.EdgeCount)
	assert.Equal(t, 2, stats.ComponentCount)
	assert.Equal(t, 1, stats.OrphanCount)
	assert.Equal(t, 3, stats.LargestComponentSize)
}

func TestServiceAnalyze_CacheHitOnSecondRun(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()
	text := "(related A B)\n"

	first, err := svc.Analyze(ctx, ports.AnalyzeRequest{Text: text})
	require.NoError(t, err)
	assert.False(t, first.FromCache)

	second, err := svc.Analyze(ctx, ports.AnalyzeRequest{Text: text})
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.CorpusHash, second.CorpusHash)
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Same(t, first.Result, second.Result)
}

func TestServiceAnalyze_ConfigChangesCacheKey(t *testing.T) {
	ctx := context.Background()
	text := "(cites PaperA PaperB PaperC)\n"

	undirected := newTestService(t, nil)
	directed := newTestService(t, func(cfg *config.Config) {
		cfg.Rules.Default = "directed"
	})

	a, err := undirected.Analyze(ctx, ports.AnalyzeRequest{Text: text})
	require.NoError(t, err)
	b, err := directed.Analyze(ctx, ports.AnalyzeRequest{Text: text})
	require.NoError(t, err)

	assert.NotEqual(t, a.CorpusHash, b.CorpusHash)
	// clique vs fan-out from the first participant
	assert.Equal(t, 3, a.Result.Stats.EdgeCount)
	assert.Equal(t, 2, b.Result.Stats.EdgeCount)
}

func TestServiceAnalyze_EmptyInputWarnsNotFails(t *testing.T) {
	svc := newTestService(t, nil)

	resp, err := svc.Analyze(context.Background(), ports.AnalyzeRequest{Text: "   \n; only a comment\n"})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Result.Stats.NodeCount)
	assert.Equal(t, 0, resp.Result.Stats.ComponentCount)
	require.Len(t, resp.Result.Warnings, 1)
	assert.Contains(t, resp.Result.Warnings[0].Message, "no expressions")
}

func TestServiceAnalyze_RecordsHistoryOncePerComputedRun(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)

	cfg := config.Default()
	svc, err := NewService(cfg, store, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close(context.Background()) })

	ctx := context.Background()
	resp, err := svc.Analyze(ctx, ports.AnalyzeRequest{Text: "(knows A B)\n"})
	require.NoError(t, err)

	// cache hit, no new snapshot
	_, err = svc.Analyze(ctx, ports.AnalyzeRequest{Text: "(knows A B)\n"})
	require.NoError(t, err)

	snaps, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, resp.RunID, snaps[0].RunID)
	assert.Equal(t, resp.CorpusHash, snaps[0].CorpusHash)
	assert.Equal(t, 2, snaps[0].NodeCount)
	assert.Equal(t, 1, snaps[0].EdgeCount)
}

func TestServiceAnalyze_StrictModeSurfacesStructuralError(t *testing.T) {
	svc := newTestService(t, func(cfg *config.Config) {
		cfg.Parse.Dialect = "sexpr"
		cfg.Parse.Strict = true
	})

	_, err := svc.Analyze(context.Background(), ports.AnalyzeRequest{Text: "(likes Alice Bob"})
	require.Error(t, err)
}

func TestNewService_RejectsInvalidRules(t *testing.T) {
	cfg := config.Default()
	cfg.Rules.Default = "sideways"
	_, err := NewService(cfg, nil, nil)
	require.Error(t, err)
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	cache := newLRUCache[string, int](2)
	cache.put("a", 1)
	cache.put("b", 2)

	// touch "a" so "b" becomes the eviction candidate
	_, ok := cache.get("a")
	require.True(t, ok)

	cache.put("c", 3)
	assert.Equal(t, 2, cache.len())

	_, ok = cache.get("b")
	assert.False(t, ok)
	v, ok := cache.get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestLRUCache_UpdateKeepsSingleEntry(t *testing.T) {
	cache := newLRUCache[string, int](2)
	cache.put("a", 1)
	cache.put("a", 9)

	assert.Equal(t, 1, cache.len())
	v, ok := cache.get("a")
	require.True(t, ok)
	assert.Equal(t, 9, v)
}
