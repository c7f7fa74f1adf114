package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreSupabase = "supabase"
	StorePostgres = "postgres"
)

type Config struct {
	Port              string
	Environment       string
	LogLevel          string
	SupabaseURL       string
	SupabaseAnonKey   string
	SupabaseJWTSecret string
	StoreDriver       string
	DatabaseURL       string
	ResendAPIKey      string
	EmailFrom         string
	MongoDBURI        string
	MongoDBPassword   string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	CloudinaryName    string
	CloudinaryKey     string
	CloudinarySecret  string
	CloudinaryFolder  string
	AllowedOrigins    []string
	BusinessTimezone  string
	RateLimit         RateLimitConfig
}

type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", StoreSupabase)
	v.SetDefault("EMAIL_FROM", "Patinhas Pet Pamper <onboarding@resend.dev>")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CLOUDINARY_FOLDER", "patinhas/services")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:8080")
	v.SetDefault("BUSINESS_TIMEZONE", "America/Sao_Paulo")
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_CAPACITY", 10)
	v.SetDefault("RATE_LIMIT_REFILL_TOKENS", 1)
	v.SetDefault("RATE_LIMIT_REFILL_INTERVAL", "30s")
	v.SetDefault("RATE_LIMIT_TTL", "10m")
	v.SetDefault("RATE_LIMIT_PREFIX", "rl:booking")
}

// LoadConfig reads configuration from the environment. Call
// godotenv.Load first to pick up .env.local.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:              v.GetString("PORT"),
		Environment:       v.GetString("ENVIRONMENT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		SupabaseURL:       strings.TrimRight(v.GetString("SUPABASE_URL"), "/"),
		SupabaseAnonKey:   v.GetString("SUPABASE_ANON_KEY"),
		SupabaseJWTSecret: v.GetString("SUPABASE_JWT_SECRET"),
		StoreDriver:       strings.ToLower(v.GetString("STORE_DRIVER")),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		ResendAPIKey:      v.GetString("RESEND_API_KEY"),
		EmailFrom:         v.GetString("EMAIL_FROM"),
		MongoDBURI:        v.GetString("MONGODB_URI"),
		MongoDBPassword:   v.GetString("MONGODB_PASSWORD"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		CloudinaryName:    v.GetString("CLOUDINARY_CLOUD_NAME"),
		CloudinaryKey:     v.GetString("CLOUDINARY_API_KEY"),
		CloudinarySecret:  v.GetString("CLOUDINARY_API_SECRET"),
		CloudinaryFolder:  v.GetString("CLOUDINARY_FOLDER"),
		AllowedOrigins:    splitList(v.GetString("ALLOWED_ORIGINS")),
		BusinessTimezone:  v.GetString("BUSINESS_TIMEZONE"),
		RateLimit: RateLimitConfig{
			Enabled:        v.GetBool("RATE_LIMIT_ENABLED"),
			Capacity:       v.GetInt("RATE_LIMIT_CAPACITY"),
			RefillTokens:   v.GetInt("RATE_LIMIT_REFILL_TOKENS"),
			RefillInterval: v.GetDuration("RATE_LIMIT_REFILL_INTERVAL"),
			TTL:            v.GetDuration("RATE_LIMIT_TTL"),
			Prefix:         v.GetString("RATE_LIMIT_PREFIX"),
		},
	}
	cfg.RateLimit.normalize()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	// auth always goes through Supabase
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseAnonKey == "" {
		return fmt.Errorf("SUPABASE_ANON_KEY is required")
	}

	switch c.StoreDriver {
	case StoreSupabase:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.MongoDBURI != "" && strings.Contains(c.MongoDBURI, "<password>") && c.MongoDBPassword == "" {
		return fmt.Errorf("MONGODB_PASSWORD is required for MONGODB_URI")
	}

	if _, err := time.LoadLocation(c.BusinessTimezone); err != nil {
		return fmt.Errorf("invalid BUSINESS_TIMEZONE: %v", err)
	}
	return nil
}

func (r *RateLimitConfig) normalize() {
	if r.Capacity < 1 {
		r.Capacity = 1
	}
	if r.RefillTokens < 1 {
		r.RefillTokens = 1
	}
	if r.RefillInterval <= 0 {
		r.RefillInterval = time.Second
	}
	if minTTL := 5 * r.RefillInterval; r.TTL < minTTL {
		r.TTL = minTTL
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) EmailEnabled() bool {
	return c.ResendAPIKey != ""
}

func (c *Config) CloudinaryEnabled() bool {
	return c.CloudinaryName != "" && c.CloudinaryKey != "" && c.CloudinarySecret != ""
}

// Location returns the business timezone used to decide whether a booking
// is upcoming.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.BusinessTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
