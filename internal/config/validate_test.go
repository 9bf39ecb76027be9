package config

import (
	"testing"
)

func TestTemperatureBoundaries(t *testing.T) {
	accepted := []string{"0.0", "2.0", "0.7"}
	for _, v := range accepted {
		if _, _, err := Load([]byte("ai:\n  temperature: " + v + "\n")); err != nil {
			t.Fatalf("expected temperature %s to be accepted: %v", v, err)
		}
	}

	rejected := []string{"2.0001", "-0.0001", "5.0"}
	for _, v := range rejected {
		verr := mustInvalid(t, "ai:\n  temperature: "+v+"\n")
		got := findViolation(t, verr, "ai.temperature")
		if got.Kind != OutOfRange {
			t.Fatalf("expected OutOfRange for temperature %s, got %s", v, got.Kind)
		}
	}
}

func TestConfidenceIsExclusiveRange(t *testing.T) {
	for _, v := range []string{"0.0", "1.0", "-0.5"} {
		verr := mustInvalid(t, "analytics:\n  default_test_confidence: "+v+"\n")
		if got := findViolation(t, verr, "analytics.default_test_confidence"); got.Kind != OutOfRange {
			t.Fatalf("expected OutOfRange for confidence %s, got %s", v, got.Kind)
		}
	}
	if _, _, err := Load([]byte("analytics:\n  default_test_confidence: 0.99\n")); err != nil {
		t.Fatalf("expected 0.99 to be accepted: %v", err)
	}
}

func TestPoolInvariants(t *testing.T) {
	verr := mustInvalid(t, "database:\n  pool_size: 0\n  max_overflow: -1\n  pool_timeout: 0\n")
	if len(verr.Violations) != 3 {
		t.Fatalf("expected 3 violations, got %v", verr.Violations)
	}
	for _, path := range []string{"database.pool_size", "database.max_overflow", "database.pool_timeout"} {
		if got := findViolation(t, verr, path); got.Kind != OutOfRange {
			t.Fatalf("expected OutOfRange at %s, got %s", path, got.Kind)
		}
	}

	if _, _, err := Load([]byte("database:\n  max_overflow: 0\n")); err != nil {
		t.Fatalf("expected zero overflow to be accepted: %v", err)
	}
}

func TestExportFormats(t *testing.T) {
	t.Run("empty rejected", func(t *testing.T) {
		verr := mustInvalid(t, "visualization:\n  export_formats: []\n")
		if got := findViolation(t, verr, "visualization.export_formats"); got.Kind != EmptyRequiredCollection {
			t.Fatalf("expected EmptyRequiredCollection, got %s", got.Kind)
		}
	})

	t.Run("single format accepted", func(t *testing.T) {
		cfg, _, err := Load([]byte("visualization:\n  export_formats: [png]\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.Visualization.ExportFormats) != 1 || cfg.Visualization.ExportFormats[0] != FormatPNG {
			t.Fatalf("unexpected formats: %v", cfg.Visualization.ExportFormats)
		}
	})

	t.Run("duplicates rejected", func(t *testing.T) {
		verr := mustInvalid(t, "visualization:\n  export_formats: [png, png]\n")
		if got := findViolation(t, verr, "visualization.export_formats"); got.Kind != OutOfRange {
			t.Fatalf("expected OutOfRange for duplicates, got %s", got.Kind)
		}
	})

	t.Run("unknown format rejected", func(t *testing.T) {
		verr := mustInvalid(t, "visualization:\n  export_formats: [png, bmp]\n")
		if got := findViolation(t, verr, "visualization.export_formats.1"); got.Kind != OutOfRange {
			t.Fatalf("expected OutOfRange for bmp, got %s", got.Kind)
		}
	})
}

func TestChartTypeEnum(t *testing.T) {
	for _, v := range []ChartType{ChartBar, ChartLine, ChartScatter, ChartPie, ChartBox, ChartHistogram, ChartHeatmap} {
		if _, _, err := Load([]byte("visualization:\n  default_chart_type: " + string(v) + "\n")); err != nil {
			t.Fatalf("expected chart type %s to be accepted: %v", v, err)
		}
	}

	verr := mustInvalid(t, "visualization:\n  default_chart_type: pie3d\n")
	got := findViolation(t, verr, "visualization.default_chart_type")
	if got.Kind != OutOfRange {
		t.Fatalf("expected OutOfRange for pie3d, got %s", got.Kind)
	}
}

func TestSeverityEnum(t *testing.T) {
	verr := mustInvalid(t, "logging:\n  handlers:\n    console:\n      level: TRACE\n")
	got := findViolation(t, verr, "logging.handlers.console.level")
	if got.Kind != OutOfRange {
		t.Fatalf("expected OutOfRange for TRACE, got %s", got.Kind)
	}

	verr = mustInvalid(t, "logging:\n  loggers:\n    analytics:\n      level: verbose\n")
	if got := findViolation(t, verr, "logging.loggers.analytics.level"); got.Kind != OutOfRange {
		t.Fatalf("expected OutOfRange for lowercase level, got %s", got.Kind)
	}
}

func TestCacheDirRequiredWhenCacheEnabled(t *testing.T) {
	verr := mustInvalid(t, "ai:\n  cache_dir: \"\"\n")
	if got := findViolation(t, verr, "ai.cache_dir"); got.Kind != OutOfRange {
		t.Fatalf("expected OutOfRange for empty cache_dir, got %s", got.Kind)
	}

	// disabling the cache lifts the requirement
	if _, _, err := Load([]byte("ai:\n  cache_enabled: false\n  cache_dir: \"\"\n")); err != nil {
		t.Fatalf("expected empty cache_dir with disabled cache to be accepted: %v", err)
	}
}

func TestNonEmptyStringFields(t *testing.T) {
	verr := mustInvalid(t, "ai:\n  provider: \"\"\n  model: \"\"\nvisualization:\n  theme: \"\"\ndatabase:\n  default_type: \"\"\n")
	for _, path := range []string{"ai.provider", "ai.model", "visualization.theme", "database.default_type"} {
		if got := findViolation(t, verr, path); got.Kind != OutOfRange {
			t.Fatalf("expected OutOfRange at %s, got %s", path, got.Kind)
		}
	}
}

func TestFieldPath(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"AppConfig.ai.temperature":                  "ai.temperature",
		"AppConfig.logging.handlers[console].level": "logging.handlers.console.level",
		"AppConfig.visualization.export_formats[1]": "visualization.export_formats.1",
	}
	for ns, want := range cases {
		if got := fieldPath(ns); got != want {
			t.Fatalf("fieldPath(%q) = %q, want %q", ns, got, want)
		}
	}
}
