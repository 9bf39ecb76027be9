package config

import "gopkg.in/yaml.v3"

// Severity is a log level name as used by handler and logger entries.
type Severity string

// Standard severities, ordered from most to least verbose.
const (
	SeverityDebug    Severity = "DEBUG"
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

// ChartType identifies a supported chart kind.
type ChartType string

const (
	ChartBar       ChartType = "bar"
	ChartLine      ChartType = "line"
	ChartScatter   ChartType = "scatter"
	ChartPie       ChartType = "pie"
	ChartBox       ChartType = "box"
	ChartHistogram ChartType = "histogram"
	ChartHeatmap   ChartType = "heatmap"
)

// ExportFormat identifies a supported chart export format.
type ExportFormat string

const (
	FormatPNG ExportFormat = "png"
	FormatSVG ExportFormat = "svg"
	FormatPDF ExportFormat = "pdf"
)

// Database type identifiers accepted by DatabaseSettings.ConnectionString.
const (
	DatabaseSQLite     = "sqlite"
	DatabasePostgreSQL = "postgresql"
	DatabaseMySQL      = "mysql"
)

// Well-known AI provider identifiers.
const (
	ProviderOpenAI      = "openai"
	ProviderAnthropic   = "anthropic"
	ProviderHuggingFace = "huggingface"
	ProviderAzure       = "azure"
)

// Built-in visualization themes.
const (
	ThemeDefault    = "default"
	ThemeDark       = "dark"
	ThemeLight      = "light"
	ThemeMinimal    = "minimal"
	ThemeColorblind = "colorblind"
)

// Handler names the default configuration ships with. Arbitrary additional
// handler names are accepted the same way arbitrary logger names are.
const (
	HandlerConsole   = "console"
	HandlerFile      = "file"
	HandlerErrorFile = "error_file"
)

// RootLogger is the logger-map key denoting the root of the logging tree.
const RootLogger = ""

// DatabaseSettings parameterizes the platform's connection pool.
type DatabaseSettings struct {
	DefaultType string `yaml:"default_type" json:"default_type" validate:"required"`
	PoolSize    int    `yaml:"pool_size" json:"pool_size" validate:"gt=0"`
	MaxOverflow int    `yaml:"max_overflow" json:"max_overflow" validate:"gte=0"`
	PoolTimeout int    `yaml:"pool_timeout" json:"pool_timeout" validate:"gt=0"`
	PoolRecycle int    `yaml:"pool_recycle" json:"pool_recycle" validate:"gt=0"`
}

// AISettings parameterizes the AI provider client and its response cache.
type AISettings struct {
	Provider     string  `yaml:"provider" json:"provider" validate:"required"`
	Model        string  `yaml:"model" json:"model" validate:"required"`
	Temperature  float64 `yaml:"temperature" json:"temperature" validate:"gte=0,lte=2"`
	MaxTokens    int     `yaml:"max_tokens" json:"max_tokens" validate:"gt=0"`
	Timeout      int     `yaml:"timeout" json:"timeout" validate:"gt=0"`
	RetryCount   int     `yaml:"retry_count" json:"retry_count" validate:"gte=0"`
	CacheEnabled bool    `yaml:"cache_enabled" json:"cache_enabled"`
	CacheDir     string  `yaml:"cache_dir" json:"cache_dir" validate:"required_if=CacheEnabled true"`
}

// LogLevelSetting holds the severity threshold of a single handler or logger.
type LogLevelSetting struct {
	Level Severity `yaml:"level" json:"level" validate:"oneof=DEBUG INFO WARNING ERROR CRITICAL"`
}

// LoggingSettings describes the logging tree. Both maps are open-ended:
// any handler or logger name is a valid key.
type LoggingSettings struct {
	Handlers map[string]LogLevelSetting `yaml:"handlers" json:"handlers" validate:"dive"`
	Loggers  map[string]LogLevelSetting `yaml:"loggers" json:"loggers" validate:"dive"`
}

// AnalyticsSettings parameterizes the statistical testing engine.
type AnalyticsSettings struct {
	DefaultTestConfidence   float64 `yaml:"default_test_confidence" json:"default_test_confidence" validate:"gt=0,lt=1"`
	UseBonferroniCorrection bool    `yaml:"use_bonferroni_correction" json:"use_bonferroni_correction"`
	MinSampleSize           int     `yaml:"min_sample_size" json:"min_sample_size" validate:"gt=0"`
	CacheResults            bool    `yaml:"cache_results" json:"cache_results"`
}

// VisualizationSettings parameterizes chart rendering and export.
type VisualizationSettings struct {
	DefaultChartType ChartType      `yaml:"default_chart_type" json:"default_chart_type" validate:"oneof=bar line scatter pie box histogram heatmap"`
	Theme            string         `yaml:"theme" json:"theme" validate:"required"`
	UseInteractive   bool           `yaml:"use_interactive" json:"use_interactive"`
	ExportFormats    []ExportFormat `yaml:"export_formats" json:"export_formats" validate:"min=1,unique,dive,oneof=png svg pdf"`
	ExportDir        string         `yaml:"export_dir" json:"export_dir" validate:"required"`
}

// AppConfig aggregates every settings section. A loaded AppConfig is
// treated as immutable: consumers receive their sub-record read-only, and
// replacing live configuration means swapping in a whole new value.
type AppConfig struct {
	Database      DatabaseSettings      `yaml:"database" json:"database"`
	AI            AISettings            `yaml:"ai" json:"ai"`
	Logging       LoggingSettings       `yaml:"logging" json:"logging"`
	Analytics     AnalyticsSettings     `yaml:"analytics" json:"analytics"`
	Visualization VisualizationSettings `yaml:"visualization" json:"visualization"`
}

// Default returns an AppConfig populated with the stock platform defaults.
func Default() AppConfig {
	return AppConfig{
		Database: DatabaseSettings{
			DefaultType: DatabaseSQLite,
			PoolSize:    5,
			MaxOverflow: 10,
			PoolTimeout: 30,
			PoolRecycle: 1800,
		},
		AI: AISettings{
			Provider:     ProviderOpenAI,
			Model:        "gpt-3.5-turbo",
			Temperature:  0.7,
			MaxTokens:    1000,
			Timeout:      30,
			RetryCount:   3,
			CacheEnabled: true,
			CacheDir:     ".cache/ai",
		},
		Logging: LoggingSettings{
			Handlers: map[string]LogLevelSetting{
				HandlerConsole:   {Level: SeverityInfo},
				HandlerFile:      {Level: SeverityDebug},
				HandlerErrorFile: {Level: SeverityError},
			},
			Loggers: map[string]LogLevelSetting{
				RootLogger: {Level: SeverityDebug},
			},
		},
		Analytics: AnalyticsSettings{
			DefaultTestConfidence:   0.95,
			UseBonferroniCorrection: true,
			MinSampleSize:           30,
			CacheResults:            true,
		},
		Visualization: VisualizationSettings{
			DefaultChartType: ChartBar,
			Theme:            ThemeDefault,
			UseInteractive:   true,
			ExportFormats:    []ExportFormat{FormatPNG, FormatSVG, FormatPDF},
			ExportDir:        "exports/charts",
		},
	}
}

// Document serializes the configuration back into a YAML document.
// Loading the result yields an equal AppConfig.
func (c AppConfig) Document() ([]byte, error) {
	return yaml.Marshal(c)
}
