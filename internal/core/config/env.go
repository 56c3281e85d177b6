package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the
// configuration. Pattern: METTAGRAPH_[SECTION]_[KEY].
func ApplyEnvOverrides(cfg *Config) {
	setEnvString(&cfg.Parse.Dialect, "METTAGRAPH_PARSE_DIALECT")
	setEnvBool(&cfg.Parse.Strict, "METTAGRAPH_PARSE_STRICT")

	setEnvString(&cfg.Rules.Default, "METTAGRAPH_RULES_DEFAULT")

	setEnvString(&cfg.Output.DOT, "METTAGRAPH_OUTPUT_DOT")
	setEnvString(&cfg.Output.Mermaid, "METTAGRAPH_OUTPUT_MERMAID")
	setEnvString(&cfg.Output.TSV, "METTAGRAPH_OUTPUT_TSV")
	setEnvString(&cfg.Output.JSON, "METTAGRAPH_OUTPUT_JSON")

	setEnvBool(&cfg.History.Enabled, "METTAGRAPH_HISTORY_ENABLED")
	setEnvString(&cfg.History.Path, "METTAGRAPH_HISTORY_PATH")

	setEnvDuration(&cfg.Watch.Debounce, "METTAGRAPH_WATCH_DEBOUNCE")

	setEnvInt(&cfg.Cache.Capacity, "METTAGRAPH_CACHE_CAPACITY")

	setEnvString(&cfg.Observability.MetricsAddr, "METTAGRAPH_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "METTAGRAPH_OBSERVABILITY_OTLP_ENDPOINT")
}

func setEnvString(target *string, key string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*target = v
	}
}

func setEnvBool(target *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			*target = parsed
		}
	}
}

func setEnvInt(target *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*target = parsed
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			*target = parsed
		}
	}
}
