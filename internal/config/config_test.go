package config

import (
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co/")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
}

func TestLoadConfigDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Port != "8080" || cfg.StoreDriver != StoreSupabase || cfg.Environment != "development" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.SupabaseURL != "https://abc.supabase.co" {
		t.Errorf("trailing slash not trimmed: %s", cfg.SupabaseURL)
	}
	if cfg.EmailEnabled() {
		t.Error("email should be disabled without RESEND_API_KEY")
	}
	if cfg.RateLimit.RefillInterval != 30*time.Second || cfg.RateLimit.Capacity != 10 {
		t.Errorf("unexpected rate limit: %+v", cfg.RateLimit)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("unexpected origins: %v", cfg.AllowedOrigins)
	}
	if cfg.Location().String() != "America/Sao_Paulo" {
		t.Errorf("unexpected location %s", cfg.Location())
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{"missing url", map[string]string{"SUPABASE_URL": "", "SUPABASE_ANON_KEY": "anon"}, true},
		{"missing key", map[string]string{"SUPABASE_URL": "https://x.supabase.co", "SUPABASE_ANON_KEY": ""}, true},
		{"postgres without dsn", map[string]string{"STORE_DRIVER": "postgres"}, true},
		{"postgres with dsn", map[string]string{"STORE_DRIVER": "postgres", "DATABASE_URL": "postgres://localhost/patinhas"}, false},
		{"unknown driver", map[string]string{"STORE_DRIVER": "sqlite"}, true},
		{"bad timezone", map[string]string{"BUSINESS_TIMEZONE": "Mars/Olympus"}, true},
		{"mongo password placeholder", map[string]string{"MONGODB_URI": "mongodb+srv://u:<password>@c.example.net"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRateLimitNormalize(t *testing.T) {
	r := RateLimitConfig{Capacity: 0, RefillTokens: 0, RefillInterval: 0, TTL: 0}
	r.normalize()
	if r.Capacity != 1 || r.RefillTokens != 1 || r.RefillInterval != time.Second || r.TTL != 5*time.Second {
		t.Errorf("unexpected normalized config: %+v", r)
	}
}
