// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, database access, the AI and publishing integrations, rate
// limiting, and observability settings.
//
// Secrets (database DSN, AI API key, publishing token) are never defaulted to
// a usable value; the adapters that need them refuse to construct when the
// corresponding variable is empty.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// DBConfig selects the database driver and connection parameters.
type DBConfig struct {
	Driver string // "postgres" or "sqlite"
	DSN    string // postgres DSN, or sqlite file path
}

// AIConfig configures the AI text-generation adapter.
type AIConfig struct {
	APIKey      string        // AI_API_KEY (required for live calls)
	Model       string        // AI_MODEL
	Timeout     time.Duration // AI_TIMEOUT, bounded by validation
	MaxAttempts int           // AI_MAX_ATTEMPTS, adapter-internal retry budget
}

// PublishConfig configures the document-publishing adapter.
type PublishConfig struct {
	Token       string        // PUBLISH_API_TOKEN (required for live calls)
	DatabaseID  string        // PUBLISH_DATABASE_ID, target collection for pages
	BaseURL     string        // PUBLISH_BASE_URL, override for tests/proxies
	Timeout     time.Duration // PUBLISH_TIMEOUT
	MaxAttempts int           // PUBLISH_MAX_ATTEMPTS
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	GinMode           string // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool
	SwaggerEnabled bool
	APIBasePath    string

	// Auth
	APIKey string // API_KEY; empty disables request authentication

	// App
	DB                DBConfig
	AI                AIConfig
	Publish           PublishConfig
	MaxContentRunes   int           // upper bound for raw content accepted by processing
	PublishRecordTTL  time.Duration // lifetime of a publish idempotency record
	HealthProbePeriod time.Duration // per-dependency probe timeout for /health

	// Rate limiting
	RateRPS   float64
	RateBurst int

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 5*time.Minute),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// Auth
		APIKey: getenv("API_KEY", ""),

		// App
		DB: DBConfig{
			Driver: strings.ToLower(getenv("DB_DRIVER", "postgres")),
			DSN:    getenv("DB_DSN", ""),
		},
		AI: AIConfig{
			APIKey:      getenv("AI_API_KEY", ""),
			Model:       getenv("AI_MODEL", "gemini-2.0-flash"),
			Timeout:     getdur("AI_TIMEOUT", 5*time.Minute),
			MaxAttempts: getint("AI_MAX_ATTEMPTS", 2),
		},
		Publish: PublishConfig{
			Token:       getenv("PUBLISH_API_TOKEN", ""),
			DatabaseID:  getenv("PUBLISH_DATABASE_ID", ""),
			BaseURL:     getenv("PUBLISH_BASE_URL", "https://api.notion.com"),
			Timeout:     getdur("PUBLISH_TIMEOUT", time.Minute),
			MaxAttempts: getint("PUBLISH_MAX_ATTEMPTS", 3),
		},
		MaxContentRunes:   getint("MAX_CONTENT_RUNES", 20000),
		PublishRecordTTL:  getdur("PUBLISH_RECORD_TTL", 24*time.Hour),
		HealthProbePeriod: getdur("HEALTH_PROBE_TIMEOUT", 2*time.Second),

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-halakha-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.DB.Driver == "sqlite" && cfg.DB.DSN == "" {
		cfg.DB.DSN = "app.db"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.DB.Driver {
	case "postgres", "sqlite":
	default:
		return cfg, errors.New("DB_DRIVER must be postgres or sqlite")
	}
	if cfg.DB.Driver == "postgres" && strings.TrimSpace(cfg.DB.DSN) == "" {
		return cfg, errors.New("DB_DSN must not be empty with the postgres driver")
	}
	if cfg.AI.Timeout <= 0 || cfg.AI.Timeout > 10*time.Minute {
		return cfg, errors.New("AI_TIMEOUT must be in (0, 10m]")
	}
	if cfg.AI.MaxAttempts < 1 {
		return cfg, errors.New("AI_MAX_ATTEMPTS must be >= 1")
	}
	if cfg.Publish.Timeout <= 0 || cfg.Publish.Timeout > 5*time.Minute {
		return cfg, errors.New("PUBLISH_TIMEOUT must be in (0, 5m]")
	}
	if cfg.Publish.MaxAttempts < 1 {
		return cfg, errors.New("PUBLISH_MAX_ATTEMPTS must be >= 1")
	}
	if cfg.MaxContentRunes < 1 {
		return cfg, errors.New("MAX_CONTENT_RUNES must be >= 1")
	}
	if cfg.PublishRecordTTL <= 0 {
		return cfg, errors.New("PUBLISH_RECORD_TTL must be > 0")
	}
	if cfg.HealthProbePeriod <= 0 {
		return cfg, errors.New("HEALTH_PROBE_TIMEOUT must be > 0")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
