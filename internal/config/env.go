package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment overrides use the platform's historical per-section
// prefixes. They are applied after the document, so a deployment can
// patch a single value without editing the file.
var envBindings = []struct {
	name  string
	apply func(cfg *AppConfig, raw string) error
}{
	{"DB_TYPE", func(c *AppConfig, raw string) error { c.Database.DefaultType = raw; return nil }},
	{"DB_POOL_SIZE", func(c *AppConfig, raw string) error { return setInt(&c.Database.PoolSize, raw) }},
	{"DB_MAX_OVERFLOW", func(c *AppConfig, raw string) error { return setInt(&c.Database.MaxOverflow, raw) }},
	{"DB_POOL_TIMEOUT", func(c *AppConfig, raw string) error { return setInt(&c.Database.PoolTimeout, raw) }},
	{"DB_POOL_RECYCLE", func(c *AppConfig, raw string) error { return setInt(&c.Database.PoolRecycle, raw) }},
	{"AI_PROVIDER", func(c *AppConfig, raw string) error { c.AI.Provider = raw; return nil }},
	{"AI_MODEL", func(c *AppConfig, raw string) error { c.AI.Model = raw; return nil }},
	{"AI_TEMPERATURE", func(c *AppConfig, raw string) error { return setFloat(&c.AI.Temperature, raw) }},
	{"AI_MAX_TOKENS", func(c *AppConfig, raw string) error { return setInt(&c.AI.MaxTokens, raw) }},
	{"AI_TIMEOUT", func(c *AppConfig, raw string) error { return setInt(&c.AI.Timeout, raw) }},
	{"AI_RETRY_COUNT", func(c *AppConfig, raw string) error { return setInt(&c.AI.RetryCount, raw) }},
	{"AI_CACHE_ENABLED", func(c *AppConfig, raw string) error { return setBool(&c.AI.CacheEnabled, raw) }},
	{"AI_CACHE_DIR", func(c *AppConfig, raw string) error { c.AI.CacheDir = raw; return nil }},
	{"ANALYTICS_DEFAULT_TEST_CONFIDENCE", func(c *AppConfig, raw string) error {
		return setFloat(&c.Analytics.DefaultTestConfidence, raw)
	}},
	{"ANALYTICS_USE_BONFERRONI_CORRECTION", func(c *AppConfig, raw string) error {
		return setBool(&c.Analytics.UseBonferroniCorrection, raw)
	}},
	{"ANALYTICS_MIN_SAMPLE_SIZE", func(c *AppConfig, raw string) error { return setInt(&c.Analytics.MinSampleSize, raw) }},
	{"ANALYTICS_CACHE_RESULTS", func(c *AppConfig, raw string) error { return setBool(&c.Analytics.CacheResults, raw) }},
	{"VIZ_DEFAULT_CHART_TYPE", func(c *AppConfig, raw string) error {
		c.Visualization.DefaultChartType = ChartType(raw)
		return nil
	}},
	{"VIZ_THEME", func(c *AppConfig, raw string) error { c.Visualization.Theme = raw; return nil }},
	{"VIZ_USE_INTERACTIVE", func(c *AppConfig, raw string) error { return setBool(&c.Visualization.UseInteractive, raw) }},
	{"VIZ_EXPORT_FORMATS", func(c *AppConfig, raw string) error {
		c.Visualization.ExportFormats = splitFormats(raw)
		return nil
	}},
	{"VIZ_EXPORT_DIR", func(c *AppConfig, raw string) error { c.Visualization.ExportDir = raw; return nil }},
}

// applyEnv overlays environment variables onto the configuration. Values
// that fail to parse are reported as warnings and skipped; values that
// parse but break an invariant are caught by the validation pass like any
// other source.
func (l *loader) applyEnv(cfg *AppConfig) {
	for _, b := range envBindings {
		raw := strings.TrimSpace(os.Getenv(b.name))
		if raw == "" {
			continue
		}
		if err := b.apply(cfg, raw); err != nil {
			l.warn("env:"+b.name, err.Error())
		}
	}
}

func setInt(dst *int, raw string) error {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid integer %q", raw)
	}
	*dst = v
	return nil
}

func setFloat(dst *float64, raw string) error {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", raw)
	}
	*dst = v
	return nil
}

// setBool accepts the spellings the platform has always accepted.
func setBool(dst *bool, raw string) error {
	switch strings.ToLower(raw) {
	case "true", "yes", "1":
		*dst = true
	case "false", "no", "0":
		*dst = false
	default:
		return fmt.Errorf("invalid boolean %q", raw)
	}
	return nil
}

func splitFormats(raw string) []ExportFormat {
	parts := strings.Split(raw, ",")
	formats := make([]ExportFormat, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		formats = append(formats, ExportFormat(part))
	}
	return formats
}
