package config

import (
	"time"

	"mettagraph/internal/engine/graph"
	"mettagraph/internal/engine/parser"
)

type Config struct {
	Version       int           `toml:"version"`
	Parse         Parse         `toml:"parse"`
	Rules         Rules         `toml:"rules"`
	Output        Output        `toml:"output"`
	History       History       `toml:"history"`
	Watch         Watch         `toml:"watch"`
	Cache         Cache         `toml:"cache"`
	Observability Observability `toml:"observability"`
}

type Parse struct {
	Dialect         string   `toml:"dialect"`
	Strict          bool     `toml:"strict"`
	BracketPairs    []string `toml:"bracket_pairs"`
	CommentPrefixes []string `toml:"comment_prefixes"`
}

type Rules struct {
	Default    string            `toml:"default"`
	Predicates map[string]string `toml:"predicates"`
}

type Output struct {
	DOT     string `toml:"dot"`
	Mermaid string `toml:"mermaid"`
	TSV     string `toml:"tsv"`
	JSON    string `toml:"json"`
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	Paths    []string      `toml:"paths"`
	Exclude  []string      `toml:"exclude"`
	// Rate limit for re-analysis bursts while watching.
	Rate  float64 `toml:"rate"`
	Burst int     `toml:"burst"`
}

type Cache struct {
	Capacity int `toml:"capacity"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
}

// ParserOptions maps the [parse] section onto the parser's option set.
func (c *Config) ParserOptions() parser.Options {
	return parser.Options{
		Dialect:         parser.Dialect(c.Parse.Dialect),
		Strict:          c.Parse.Strict,
		BracketPairs:    append([]string(nil), c.Parse.BracketPairs...),
		CommentPrefixes: append([]string(nil), c.Parse.CommentPrefixes...),
	}
}

// GraphRules maps the [rules] section onto the builder's connection rules.
func (c *Config) GraphRules() graph.Rules {
	rules := graph.Rules{Default: graph.Mode(c.Rules.Default)}
	if len(c.Rules.Predicates) > 0 {
		rules.Predicates = make(map[string]graph.Mode, len(c.Rules.Predicates))
		for pattern, mode := range c.Rules.Predicates {
			rules.Predicates[pattern] = graph.Mode(mode)
		}
	}
	return rules
}

func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if cfg.Parse.Dialect == "" {
		cfg.Parse.Dialect = string(parser.DialectAuto)
	}
	if len(cfg.Parse.BracketPairs) == 0 {
		cfg.Parse.BracketPairs = []string{"()", "[]"}
	}
	if len(cfg.Parse.CommentPrefixes) == 0 {
		cfg.Parse.CommentPrefixes = []string{";"}
	}
	if cfg.Rules.Default == "" {
		cfg.Rules.Default = string(graph.ModeUndirected)
	}
	if cfg.History.Path == "" {
		cfg.History.Path = "data/history.db"
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.Rate == 0 {
		cfg.Watch.Rate = 2
	}
	if cfg.Watch.Burst == 0 {
		cfg.Watch.Burst = 1
	}
	if cfg.Cache.Capacity == 0 {
		cfg.Cache.Capacity = 64
	}
}
