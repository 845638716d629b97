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
)

type Config struct {
	Env  string
	Port int

	Backend   BackendConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Auth      AuthConfig
	Log       LogConfig
	Dashboard DashboardConfig
	CORS      CORSConfig
}

// BackendConfig points the dashboard at the reports REST backend.
type BackendConfig struct {
	BaseURL string
	// PublicURL is the browser-facing origin used for report detail navigation.
	PublicURL string
	Timeout   time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig governs caching of reference data and dashboard payloads.
type CacheConfig struct {
	Enabled      bool
	ReferenceTTL time.Duration
	DashboardTTL time.Duration
	AnalyticsTTL time.Duration
}

type AuthConfig struct {
	Secret     string
	CookieName string
	Required   bool
}

type LogConfig struct {
	Level  string
	Format string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// DashboardConfig tunes the landing page.
type DashboardConfig struct {
	RecentLimit int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	baseURL := strings.TrimRight(v.GetString("BACKEND_BASE_URL"), "/")
	publicURL := strings.TrimRight(v.GetString("BACKEND_PUBLIC_URL"), "/")
	if publicURL == "" {
		publicURL = baseURL
	}
	cfg.Backend = BackendConfig{
		BaseURL:   baseURL,
		PublicURL: publicURL,
		Timeout:   parseDuration(v.GetString("BACKEND_TIMEOUT"), 10*time.Second),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Cache = CacheConfig{
		Enabled:      v.GetBool("ENABLE_CACHE"),
		ReferenceTTL: parseDuration(v.GetString("REFERENCE_CACHE_TTL"), 10*time.Minute),
		DashboardTTL: parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), time.Minute),
		AnalyticsTTL: parseDuration(v.GetString("ANALYTICS_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Auth = AuthConfig{
		Secret:     v.GetString("JWT_SECRET"),
		CookieName: v.GetString("AUTH_COOKIE_NAME"),
		Required:   v.GetBool("AUTH_REQUIRED"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	limit := v.GetInt("DASHBOARD_RECENT_LIMIT")
	if limit <= 0 {
		limit = 10
	}
	cfg.Dashboard = DashboardConfig{RecentLimit: limit}

	cfg.CORS = CORSConfig{AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS"))}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)

	v.SetDefault("BACKEND_BASE_URL", "http://localhost:8000")
	v.SetDefault("BACKEND_PUBLIC_URL", "")
	v.SetDefault("BACKEND_TIMEOUT", "10s")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("REFERENCE_CACHE_TTL", "10m")
	v.SetDefault("DASHBOARD_CACHE_TTL", "1m")
	v.SetDefault("ANALYTICS_CACHE_TTL", "10m")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("AUTH_COOKIE_NAME", "access_token")
	v.SetDefault("AUTH_REQUIRED", false)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DASHBOARD_RECENT_LIMIT", 10)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}

	return d
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
