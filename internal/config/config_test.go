package config

import (
	"testing"
	"time"
)

// clearEnv unsets every variable the loader reads so defaults apply.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "READ_TIMEOUT", "READ_HEADER_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT",
		"MAX_HEADER_BYTES", "GIN_MODE", "LOG_LEVEL", "LOG_PRETTY", "SWAGGER_ENABLED",
		"API_BASE_PATH", "API_KEY", "DB_DRIVER", "DB_DSN", "AI_API_KEY", "AI_MODEL",
		"AI_TIMEOUT", "AI_MAX_ATTEMPTS", "PUBLISH_API_TOKEN", "PUBLISH_DATABASE_ID",
		"PUBLISH_BASE_URL", "PUBLISH_TIMEOUT", "PUBLISH_MAX_ATTEMPTS",
		"MAX_CONTENT_RUNES", "PUBLISH_RECORD_TTL", "HEALTH_PROBE_TIMEOUT",
		"RATE_RPS", "RATE_BURST", "CORS_ALLOWED_ORIGINS", "ENABLE_HSTS", "HSTS_MAX_AGE",
		"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE",
		"OTEL_SERVICE_NAME", "OTEL_TRACES_SAMPLER_ARG",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults_SqliteFallbackDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.GinMode != "release" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DB.DSN != "app.db" {
		t.Fatalf("sqlite driver should default DSN to app.db, got %q", cfg.DB.DSN)
	}
	if cfg.AI.Timeout != 5*time.Minute || cfg.Publish.Timeout != time.Minute {
		t.Fatalf("unexpected adapter timeouts: %+v", cfg)
	}
	// Secrets must default to unusable empties.
	if cfg.AI.APIKey != "" || cfg.Publish.Token != "" || cfg.APIKey != "" {
		t.Fatalf("secret defaults must be empty: %+v", cfg)
	}
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "postgres")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for postgres without DB_DSN")
	}

	t.Setenv("DB_DSN", "host=localhost user=app dbname=halakha sslmode=disable")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB.Driver != "postgres" {
		t.Fatalf("driver = %q", cfg.DB.Driver)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name string
		k, v string
	}{
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad db driver", "DB_DRIVER", "oracle"},
		{"ai timeout too large", "AI_TIMEOUT", "1h"},
		{"zero rate burst", "RATE_BURST", "0"},
		{"negative sample ratio", "OTEL_TRACES_SAMPLER_ARG", "-0.5"},
		{"zero publish record ttl", "PUBLISH_RECORD_TTL", "-1s"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DB_DRIVER", "sqlite")
			t.Setenv(tc.k, tc.v)
			if _, err := Load(); err == nil {
				t.Fatalf("expected validation error for %s=%s", tc.k, tc.v)
			}
		})
	}
}

func TestLoad_NormalizesBasePathAndOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("API_BASE_PATH", "api/v2/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example , https://b.example,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBasePath != "/api/v2" {
		t.Fatalf("APIBasePath = %q", cfg.APIBasePath)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("AllowedOrigins = %v", cfg.CORS.AllowedOrigins)
	}
}
