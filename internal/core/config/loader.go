package config

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"mettagraph/internal/core/errors"
	"mettagraph/internal/engine/graph"
	"mettagraph/internal/engine/parser"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "decode config")
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects a configuration before any parsing begins. All failures
// carry the INVALID_CONFIG code; they are the only hard failures outside
// strict-mode parsing.
func Validate(cfg *Config) error {
	if err := validateVersion(cfg); err != nil {
		return err
	}
	if err := validateParse(cfg); err != nil {
		return err
	}
	if err := validateRules(cfg); err != nil {
		return err
	}
	if err := validateHistory(cfg); err != nil {
		return err
	}
	if err := validateCache(cfg); err != nil {
		return err
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return errors.New(errors.CodeInvalidConfig,
			fmt.Sprintf("unsupported config version %d; only version 1 is supported", cfg.Version))
	}
	return nil
}

func validateParse(cfg *Config) error {
	switch parser.Dialect(cfg.Parse.Dialect) {
	case parser.DialectSExpr, parser.DialectFlat, parser.DialectAuto:
	default:
		return errors.New(errors.CodeInvalidConfig,
			fmt.Sprintf("parse.dialect must be one of: sexpr, flat, auto; got %q", cfg.Parse.Dialect))
	}

	if len(cfg.Parse.BracketPairs) == 0 {
		return errors.New(errors.CodeInvalidConfig, "parse.bracket_pairs must not be empty")
	}
	for _, pair := range cfg.Parse.BracketPairs {
		if utf8.RuneCountInString(pair) != 2 {
			return errors.New(errors.CodeInvalidConfig,
				fmt.Sprintf("parse.bracket_pairs entry %q must be exactly two characters", pair))
		}
		runes := []rune(pair)
		if runes[0] == runes[1] {
			return errors.New(errors.CodeInvalidConfig,
				fmt.Sprintf("parse.bracket_pairs entry %q must use distinct open and close characters", pair))
		}
	}

	for _, prefix := range cfg.Parse.CommentPrefixes {
		if strings.TrimSpace(prefix) == "" {
			return errors.New(errors.CodeInvalidConfig, "parse.comment_prefixes entries must not be blank")
		}
	}
	return nil
}

func validateRules(cfg *Config) error {
	if !validMode(cfg.Rules.Default) {
		return errors.New(errors.CodeInvalidConfig,
			fmt.Sprintf("rules.default must be directed or undirected, got %q", cfg.Rules.Default))
	}
	for pattern, mode := range cfg.Rules.Predicates {
		if strings.TrimSpace(pattern) == "" {
			return errors.New(errors.CodeInvalidConfig, "rules.predicates keys must not be blank")
		}
		if !validMode(mode) {
			return errors.New(errors.CodeInvalidConfig,
				fmt.Sprintf("rules.predicates[%q] must be directed or undirected, got %q", pattern, mode))
		}
	}
	return nil
}

func validMode(mode string) bool {
	switch graph.Mode(mode) {
	case graph.ModeDirected, graph.ModeUndirected:
		return true
	}
	return false
}

func validateHistory(cfg *Config) error {
	if cfg.History.Enabled && strings.TrimSpace(cfg.History.Path) == "" {
		return errors.New(errors.CodeInvalidConfig, "history.path must not be empty when history is enabled")
	}
	return nil
}

func validateCache(cfg *Config) error {
	if cfg.Cache.Capacity < 1 {
		return errors.New(errors.CodeInvalidConfig,
			fmt.Sprintf("cache.capacity must be >= 1, got %d", cfg.Cache.Capacity))
	}
	return nil
}
