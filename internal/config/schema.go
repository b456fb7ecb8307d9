package config

import (
	"time"

	"github.com/prometheus/common/model"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
	ModeTest        = "test"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Plausible PlausibleConfig `yaml:"plausible"`
	Cache     CacheConfig     `yaml:"cache"`
	Redis     *RedisConfig    `yaml:"redis"`
}

// IsProduction reports whether error details must be redacted and logs written to disk.
func (c *Config) IsProduction() bool {
	return c.Server.Mode == ModeProduction
}

// IsDevelopment reports whether stack traces may be returned to callers.
func (c *Config) IsDevelopment() bool {
	return c.Server.Mode == ModeDevelopment
}

type ServerConfig struct {
	Port         int    `yaml:"port"`
	Mode         string `yaml:"mode"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
	// TrustProxyHeaders takes the client address from True-Client-IP, X-Real-IP or
	// X-Forwarded-For. Only enable behind a proxy that overwrites them.
	TrustProxyHeaders bool               `yaml:"trust_proxy_headers"`
	Debug             *ServerDebugConfig `yaml:"debug"`
}

var DefaultServerConfig = ServerConfig{
	Port:         3000,
	Mode:         ModeDevelopment,
	MaxBodyBytes: 10 << 20,
}

type ServerDebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

var DefaultDebugConfig = ServerDebugConfig{
	Enabled: false,
	Host:    "localhost",
	Port:    5123,
}

type LogConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	Directory string `yaml:"directory"`
}

var DefaultLogConfig = LogConfig{
	Level:     "info",
	Format:    "text",
	Directory: "logs",
}

type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	ExposedHeaders   []string `yaml:"exposed_headers"`
	AllowCredentials *bool    `yaml:"allow_credentials"`
	MaxAgeSeconds    int      `yaml:"max_age_seconds"`
}

var DefaultCORSConfig = CORSConfig{
	AllowedOrigins: []string{"http://localhost:3000"},
	AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	AllowedHeaders: []string{"Authorization", "Content-Type"},
	ExposedHeaders: []string{"X-Cache"},
	MaxAgeSeconds:  300,
}

type RateLimitConfig struct {
	Disabled bool           `yaml:"disabled"`
	Requests int            `yaml:"requests"`
	Window   model.Duration `yaml:"window"`
}

var DefaultRateLimitConfig = RateLimitConfig{
	Requests: 150,
	Window:   model.Duration(15 * time.Minute),
}

type PlausibleConfig struct {
	BaseURL    string         `yaml:"base_url"`
	APIVersion string         `yaml:"api_version"`
	Timeout    model.Duration `yaml:"timeout"`
	UserAgent  string         `yaml:"user_agent"`
}

var DefaultPlausibleConfig = PlausibleConfig{
	BaseURL:    "https://plausible.io",
	APIVersion: "v2",
	Timeout:    model.Duration(10 * time.Second),
}

type CacheConfig struct {
	Type       string         `yaml:"type"` //  "memory" or "redis"
	DefaultTTL model.Duration `yaml:"default_ttl"`
	TTL        QueryTTLConfig `yaml:"ttl"`
}

// QueryTTLConfig holds how long each query type stays cached.
type QueryTTLConfig struct {
	Realtime   model.Duration `yaml:"realtime"`
	Timeseries model.Duration `yaml:"timeseries"`
	Aggregate  model.Duration `yaml:"aggregate"`
	Breakdown  model.Duration `yaml:"breakdown"`
}

var DefaultCacheConfig = CacheConfig{
	Type:       "memory",
	DefaultTTL: model.Duration(5 * time.Minute),
	TTL: QueryTTLConfig{
		Realtime:   model.Duration(30 * time.Second),
		Timeseries: model.Duration(5 * time.Minute),
		Aggregate:  model.Duration(5 * time.Minute),
		Breakdown:  model.Duration(10 * time.Minute),
	},
}

type RedisConfig struct {
	Address    string `yaml:"address"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	CacheIndex int    `yaml:"cache_index"`
	KeyPrefix  string `yaml:"key_prefix"`
}

var DefaultRedisConfig = RedisConfig{
	CacheIndex: 1,
	KeyPrefix:  "cache:query:",
}
