package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DefaultBaseURL = "http://vaniercollege.qc.ca/online-schedule/"
	// The site rejects generic agents, so this is required, not cosmetic.
	DefaultUserAgent = "Mozilla/5.0 Chrome/96.0.4664.45 Safari/537.36"
)

type Config struct {
	Env  string
	Port int

	Upstream UpstreamConfig
	Catalog  CatalogConfig
	CORS     CORSConfig
	Log      LogConfig
	Calendar CalendarConfig
}

// UpstreamConfig describes how the schedule site is reached.
type UpstreamConfig struct {
	BaseURL       string
	UserAgent     string
	HTTPTimeout   time.Duration
	ScriptTimeout time.Duration
}

// CatalogConfig bounds fan-out when many departments are fetched at once.
type CatalogConfig struct {
	Concurrency int
	RatePerSec  float64
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CalendarConfig controls iCalendar export.
type CalendarConfig struct {
	Timezone  string
	TermStart string
	TermEnd   string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	return LoadWith(viper.New())
}

// LoadWith reads configuration into v, letting callers bind flags first.
func LoadWith(v *viper.Viper) (*Config, error) {
	_ = godotenv.Load()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{
		Env:  v.GetString("ENV"),
		Port: v.GetInt("PORT"),
	}

	cfg.Upstream = UpstreamConfig{
		BaseURL:       ensureTrailingSlash(v.GetString("VANIER_URL")),
		UserAgent:     v.GetString("USER_AGENT"),
		HTTPTimeout:   parseDuration(v.GetString("HTTP_TIMEOUT"), 30*time.Second),
		ScriptTimeout: parseDuration(v.GetString("SCRIPT_TIMEOUT"), 5*time.Second),
	}

	concurrency := v.GetInt("CATALOG_CONCURRENCY")
	if concurrency <= 0 {
		concurrency = 1
	}
	cfg.Catalog = CatalogConfig{
		Concurrency: concurrency,
		RatePerSec:  v.GetFloat64("CATALOG_RATE"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Calendar = CalendarConfig{
		Timezone:  v.GetString("TIMEZONE"),
		TermStart: v.GetString("TERM_START"),
		TermEnd:   v.GetString("TERM_END"),
	}

	if cfg.Upstream.UserAgent == "" {
		return nil, errors.New("USER_AGENT must not be empty")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)

	v.SetDefault("VANIER_URL", DefaultBaseURL)
	v.SetDefault("USER_AGENT", DefaultUserAgent)
	v.SetDefault("HTTP_TIMEOUT", "30s")
	v.SetDefault("SCRIPT_TIMEOUT", "5s")

	v.SetDefault("CATALOG_CONCURRENCY", 4)
	v.SetDefault("CATALOG_RATE", 2.0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("TIMEZONE", "America/Toronto")
	v.SetDefault("TERM_START", "")
	v.SetDefault("TERM_END", "")
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func ensureTrailingSlash(u string) string {
	if u == "" || strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}
