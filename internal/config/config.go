package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config represents runtime configuration derived from environment variables.
type Config struct {
	Completion CompletionConfig
	Search     SearchConfig
	Report     ReportConfig
	Output     OutputConfig
	Upload     UploadConfig
	Metrics    MetricsConfig
	Logging    LoggingConfig
}

// Provider identifies the completion backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// ErrorPolicy decides what happens when a generation call fails.
type ErrorPolicy string

const (
	// PolicyAsk pauses for an interactive continue/abort decision.
	PolicyAsk ErrorPolicy = "ask"
	// PolicyContinue substitutes a placeholder section and proceeds.
	PolicyContinue ErrorPolicy = "continue"
	// PolicyAbort terminates the run on the first failure.
	PolicyAbort ErrorPolicy = "abort"
)

// DataSource selects where the structured portfolio JSON comes from.
type DataSource string

const (
	// DataFromExtract scrapes the executive-summary markdown table.
	DataFromExtract DataSource = "extract"
	// DataFromModel issues a dedicated JSON-only completion call.
	DataFromModel DataSource = "model"
)

// CompletionConfig holds parameters for the primary completion provider.
type CompletionConfig struct {
	Provider        Provider
	OpenAIKey       string
	OpenAIModel     string
	ReasoningEffort string
	AnthropicKey    string
	AnthropicModel  string
	Timeout         time.Duration
}

// SearchConfig holds parameters for the web-search provider.
type SearchConfig struct {
	APIKey   string
	BaseURL  string
	Model    string
	MaxChars int // per-source truncation budget in formatted context
}

// ReportConfig controls section generation and extraction behavior.
type ReportConfig struct {
	OnError       ErrorPolicy
	DataSource    DataSource
	PositionsMin  int
	PositionsMax  int
	TargetLongPct int
	AssetBatch    int
	ReportDate    string
}

// OutputConfig names the filesystem outputs.
type OutputConfig struct {
	Dir string
}

// UploadConfig enables the optional document-store upload when a DSN is set.
type UploadConfig struct {
	DatabaseURL string
}

// MetricsConfig exposes Prometheus metrics during the run when Addr is set.
type MetricsConfig struct {
	Addr string
}

// LoggingConfig represents structured logging configuration.
type LoggingConfig struct {
	Level  slog.Level
	Format string
}

const (
	defaultOpenAIModel     = "o3-mini"
	defaultReasoningEffort = "high"
	defaultAnthropicModel  = "claude-sonnet-4-20250514"
	defaultSearchBaseURL   = "https://api.perplexity.ai"
	defaultSearchModel     = "sonar-pro"
	defaultSearchMaxChars  = 4000
	defaultPositionsMin    = 10
	defaultPositionsMax    = 15
	defaultTargetLongPct   = 80
	defaultAssetBatch      = 4
	defaultOutputDir       = "output"
	defaultTimeout         = 10 * time.Minute

	defaultLogFormat = "text"
)

// Load reads configuration from environment variables, applying defaults when
// values are not provided. Malformed values are errors; a missing primary
// API key is checked by the caller so that the failure is logged properly.
func Load() (Config, error) {
	cfg := Config{
		Completion: CompletionConfig{
			Provider:        ProviderOpenAI,
			OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:     getEnv("OPENAI_MODEL", defaultOpenAIModel),
			ReasoningEffort: getEnv("OPENAI_REASONING_EFFORT", defaultReasoningEffort),
			AnthropicKey:    os.Getenv("ANTHROPIC_API_KEY"),
			AnthropicModel:  getEnv("ANTHROPIC_MODEL", defaultAnthropicModel),
			Timeout:         defaultTimeout,
		},
		Search: SearchConfig{
			APIKey:   os.Getenv("PERPLEXITY_API_KEY"),
			BaseURL:  getEnv("PERPLEXITY_BASE_URL", defaultSearchBaseURL),
			Model:    getEnv("SEARCH_MODEL", defaultSearchModel),
			MaxChars: defaultSearchMaxChars,
		},
		Report: ReportConfig{
			OnError:       PolicyAsk,
			DataSource:    DataFromExtract,
			PositionsMin:  defaultPositionsMin,
			PositionsMax:  defaultPositionsMax,
			TargetLongPct: defaultTargetLongPct,
			AssetBatch:    defaultAssetBatch,
			ReportDate:    getEnv("REPORT_DATE", time.Now().Format("January 2, 2006")),
		},
		Output: OutputConfig{
			Dir: getEnv("OUTPUT_DIR", defaultOutputDir),
		},
		Upload: UploadConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
		},
		Metrics: MetricsConfig{
			Addr: os.Getenv("METRICS_ADDR"),
		},
		Logging: LoggingConfig{
			Level:  slog.LevelInfo,
			Format: defaultLogFormat,
		},
	}

	if v := os.Getenv("COMPLETION_PROVIDER"); v != "" {
		switch Provider(v) {
		case ProviderOpenAI, ProviderAnthropic:
			cfg.Completion.Provider = Provider(v)
		default:
			return Config{}, fmt.Errorf("invalid COMPLETION_PROVIDER: must be 'openai' or 'anthropic'")
		}
	}

	if v := os.Getenv("COMPLETION_TIMEOUT_SECONDS"); v != "" {
		d, err := parseSeconds(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid COMPLETION_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Completion.Timeout = d
	}

	if v := os.Getenv("SEARCH_MAX_CHARS"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SEARCH_MAX_CHARS: %w", err)
		}
		cfg.Search.MaxChars = n
	}

	if v := os.Getenv("ON_ERROR"); v != "" {
		switch ErrorPolicy(v) {
		case PolicyAsk, PolicyContinue, PolicyAbort:
			cfg.Report.OnError = ErrorPolicy(v)
		default:
			return Config{}, fmt.Errorf("invalid ON_ERROR: must be one of ask, continue, abort")
		}
	}

	if v := os.Getenv("PORTFOLIO_DATA_SOURCE"); v != "" {
		switch DataSource(v) {
		case DataFromExtract, DataFromModel:
			cfg.Report.DataSource = DataSource(v)
		default:
			return Config{}, fmt.Errorf("invalid PORTFOLIO_DATA_SOURCE: must be 'extract' or 'model'")
		}
	}

	if v := os.Getenv("POSITIONS_MIN"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid POSITIONS_MIN: %w", err)
		}
		cfg.Report.PositionsMin = n
	}

	if v := os.Getenv("POSITIONS_MAX"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid POSITIONS_MAX: %w", err)
		}
		cfg.Report.PositionsMax = n
	}

	if cfg.Report.PositionsMin > cfg.Report.PositionsMax {
		return Config{}, fmt.Errorf("POSITIONS_MIN (%d) exceeds POSITIONS_MAX (%d)",
			cfg.Report.PositionsMin, cfg.Report.PositionsMax)
	}

	if v := os.Getenv("TARGET_LONG_PCT"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil || n > 100 {
			return Config{}, fmt.Errorf("invalid TARGET_LONG_PCT: must be an integer between 1 and 100")
		}
		cfg.Report.TargetLongPct = n
	}

	if v := os.Getenv("ASSET_BATCH_SIZE"); v != "" {
		n, err := parsePositiveInt(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ASSET_BATCH_SIZE: %w", err)
		}
		cfg.Report.AssetBatch = n
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, err := parseLogLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.Logging.Level = level
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		switch v {
		case "json", "text":
			cfg.Logging.Format = v
		default:
			return Config{}, fmt.Errorf("invalid LOG_FORMAT: must be 'json' or 'text'")
		}
	}

	return cfg, nil
}

func parseSeconds(raw string) (time.Duration, error) {
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("must be a non-negative integer")
	}
	return time.Duration(seconds) * time.Second, nil
}

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("must be a positive integer")
	}
	return n, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch raw {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("must be one of debug, info, warn, error")
	}
}
