package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load resolves a configuration document against the compiled-in defaults.
// Every field present in the document overrides its default; every absent
// field keeps it. Validation is exhaustive: the returned *ValidationError
// carries one Violation per offending field rather than stopping at the
// first. Unknown keys are reported as warnings, never as failures, except
// under logging.handlers and logging.loggers where names are open-ended.
func Load(data []byte) (AppConfig, []Warning, error) {
	cfg := Default()
	l := &loader{}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		l.violation(MalformedDocument, "", nil, fmt.Sprintf("cannot parse document: %v", err))
		return AppConfig{}, nil, &ValidationError{Violations: l.violations}
	}

	if doc := documentRoot(&root); doc != nil {
		if doc.Kind != yaml.MappingNode {
			l.violation(MalformedDocument, "", doc, "top-level document must be a mapping")
			return AppConfig{}, nil, &ValidationError{Violations: l.violations}
		}
		l.decodeDocument(doc, &cfg)
	}

	l.applyEnv(&cfg)
	l.validateConfig(&cfg)

	if len(l.violations) > 0 {
		return AppConfig{}, l.warnings, &ValidationError{Violations: l.violations}
	}
	return cfg, l.warnings, nil
}

// LoadFile reads and resolves a configuration file. YAML and the JSON
// subset of YAML are both accepted, matching the formats the platform has
// historically shipped.
func LoadFile(path string) (AppConfig, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, nil, fmt.Errorf("read config file: %w", err)
	}
	return Load(data)
}

// loader accumulates diagnostics across the decode and validation passes.
type loader struct {
	violations []Violation
	warnings   []Warning
}

func (l *loader) violation(kind ViolationKind, path string, node *yaml.Node, message string) {
	v := Violation{Path: path, Kind: kind, Message: message}
	if node != nil && node.Kind == yaml.ScalarNode {
		v.Value = node.Value
	}
	l.violations = append(l.violations, v)
}

func (l *loader) warn(path, message string) {
	l.warnings = append(l.warnings, Warning{Path: path, Message: message})
}

func (l *loader) unknownKey(path string) {
	l.warn(path, "unknown key")
}

// documentRoot unwraps the document node, returning nil for an empty or
// null document.
func documentRoot(root *yaml.Node) *yaml.Node {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil
	}
	doc := root.Content[0]
	if isNull(doc) {
		return nil
	}
	return doc
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

// section checks that a section value is a mapping; a null value means the
// section is present but empty, which keeps the defaults.
func (l *loader) section(path string, node *yaml.Node) *yaml.Node {
	if isNull(node) {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		l.violation(MalformedDocument, path, node, "section must be a mapping")
		return nil
	}
	return node
}

// decodeField decodes one scalar or sequence node into a typed field,
// recording a TypeMismatch and keeping the default on failure. An explicit
// null keeps the default, the same way an absent key does.
func decodeField[T any](l *loader, path string, node *yaml.Node, dst *T) {
	if isNull(node) {
		return
	}
	var v T
	if err := node.Decode(&v); err != nil {
		l.violation(TypeMismatch, path, node, fmt.Sprintf("cannot decode value: %v", err))
		return
	}
	*dst = v
}

func (l *loader) decodeDocument(doc *yaml.Node, cfg *AppConfig) {
	for i := 0; i < len(doc.Content)-1; i += 2 {
		key, val := doc.Content[i], doc.Content[i+1]
		switch key.Value {
		case "database":
			if node := l.section("database", val); node != nil {
				l.decodeDatabase(node, &cfg.Database)
			}
		case "ai":
			if node := l.section("ai", val); node != nil {
				l.decodeAI(node, &cfg.AI)
			}
		case "logging":
			if node := l.section("logging", val); node != nil {
				l.decodeLogging(node, &cfg.Logging)
			}
		case "analytics":
			if node := l.section("analytics", val); node != nil {
				l.decodeAnalytics(node, &cfg.Analytics)
			}
		case "visualization":
			if node := l.section("visualization", val); node != nil {
				l.decodeVisualization(node, &cfg.Visualization)
			}
		default:
			l.unknownKey(key.Value)
		}
	}
}

func (l *loader) decodeDatabase(node *yaml.Node, out *DatabaseSettings) {
	for i := 0; i < len(node.Content)-1; i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		path := "database." + key.Value
		switch key.Value {
		case "default_type":
			decodeField(l, path, val, &out.DefaultType)
		case "pool_size":
			decodeField(l, path, val, &out.PoolSize)
		case "max_overflow":
			decodeField(l, path, val, &out.MaxOverflow)
		case "pool_timeout":
			decodeField(l, path, val, &out.PoolTimeout)
		case "pool_recycle":
			decodeField(l, path, val, &out.PoolRecycle)
		default:
			l.unknownKey(path)
		}
	}
}

func (l *loader) decodeAI(node *yaml.Node, out *AISettings) {
	for i := 0; i < len(node.Content)-1; i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		path := "ai." + key.Value
		switch key.Value {
		case "provider":
			decodeField(l, path, val, &out.Provider)
		case "model":
			decodeField(l, path, val, &out.Model)
		case "temperature":
			decodeField(l, path, val, &out.Temperature)
		case "max_tokens":
			decodeField(l, path, val, &out.MaxTokens)
		case "timeout":
			decodeField(l, path, val, &out.Timeout)
		case "retry_count":
			decodeField(l, path, val, &out.RetryCount)
		case "cache_enabled":
			decodeField(l, path, val, &out.CacheEnabled)
		case "cache_dir":
			decodeField(l, path, val, &out.CacheDir)
		default:
			l.unknownKey(path)
		}
	}
}

func (l *loader) decodeLogging(node *yaml.Node, out *LoggingSettings) {
	for i := 0; i < len(node.Content)-1; i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "handlers":
			l.decodeLevelMap("logging.handlers", val, out.Handlers)
		case "loggers":
			l.decodeLevelMap("logging.loggers", val, out.Loggers)
		default:
			l.unknownKey("logging." + key.Value)
		}
	}
}

// decodeLevelMap merges one of the open-ended logging maps. Entry names
// are free-form and never warned about; unknown keys inside an entry are.
func (l *loader) decodeLevelMap(prefix string, node *yaml.Node, dst map[string]LogLevelSetting) {
	mapping := l.section(prefix, node)
	if mapping == nil {
		return
	}
	for i := 0; i < len(mapping.Content)-1; i += 2 {
		name, body := mapping.Content[i], mapping.Content[i+1]
		entryPath := prefix + "." + name.Value
		if isNull(body) {
			continue
		}
		if body.Kind != yaml.MappingNode {
			l.violation(MalformedDocument, entryPath, body, "entry must be a mapping")
			continue
		}
		entry := dst[name.Value]
		for j := 0; j < len(body.Content)-1; j += 2 {
			key, val := body.Content[j], body.Content[j+1]
			switch key.Value {
			case "level":
				decodeField(l, entryPath+".level", val, &entry.Level)
			default:
				l.unknownKey(entryPath + "." + key.Value)
			}
		}
		dst[name.Value] = entry
	}
}

func (l *loader) decodeAnalytics(node *yaml.Node, out *AnalyticsSettings) {
	for i := 0; i < len(node.Content)-1; i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		path := "analytics." + key.Value
		switch key.Value {
		case "default_test_confidence":
			decodeField(l, path, val, &out.DefaultTestConfidence)
		case "use_bonferroni_correction":
			decodeField(l, path, val, &out.UseBonferroniCorrection)
		case "min_sample_size":
			decodeField(l, path, val, &out.MinSampleSize)
		case "cache_results":
			decodeField(l, path, val, &out.CacheResults)
		default:
			l.unknownKey(path)
		}
	}
}

func (l *loader) decodeVisualization(node *yaml.Node, out *VisualizationSettings) {
	for i := 0; i < len(node.Content)-1; i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		path := "visualization." + key.Value
		switch key.Value {
		case "default_chart_type":
			decodeField(l, path, val, &out.DefaultChartType)
		case "theme":
			decodeField(l, path, val, &out.Theme)
		case "use_interactive":
			decodeField(l, path, val, &out.UseInteractive)
		case "export_formats":
			decodeField(l, path, val, &out.ExportFormats)
		case "export_dir":
			decodeField(l, path, val, &out.ExportDir)
		default:
			l.unknownKey(path)
		}
	}
}
