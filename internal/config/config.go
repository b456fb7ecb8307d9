package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/common/model"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads the optional YAML file at configPath, applies environment overrides and
// fills in defaults. An empty path configures the proxy from the environment alone.
func LoadConfig(configPath string) (*Config, error) {
	var config Config

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := applyEnvironmentOverrides(&config); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

var (
	EnvPort                = "PORT"
	EnvMode                = "APP_ENV"
	EnvFrontendURL         = "FRONTEND_URL"
	EnvLogLevel            = "LOG_LEVEL"
	EnvLogFormat           = "LOG_FORMAT"
	EnvLogDirectory        = "LOG_DIRECTORY"
	EnvPlausibleBaseURL    = "PLAUSIBLE_BASE_URL"
	EnvPlausibleAPIVersion = "PLAUSIBLE_API_VERSION"
	EnvCacheType           = "CACHE_TYPE"
	EnvCacheTTL            = "CACHE_TTL"
	EnvRedisAddress        = "REDIS_ADDRESS"
	EnvRedisUsername       = "REDIS_USERNAME"
	EnvRedisPassword       = "REDIS_PASSWORD"
)

func applyEnvironmentOverrides(config *Config) error {
	if portStr := os.Getenv(EnvPort); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("%s must be an integer, got %q", EnvPort, portStr)
		}
		config.Server.Port = port
	}

	if mode := os.Getenv(EnvMode); mode != "" {
		config.Server.Mode = strings.ToLower(mode)
	}

	if frontendURL := os.Getenv(EnvFrontendURL); frontendURL != "" {
		config.CORS.AllowedOrigins = []string{frontendURL}
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		config.Log.Level = strings.ToLower(level)
	}

	if format := os.Getenv(EnvLogFormat); format != "" {
		config.Log.Format = strings.ToLower(format)
	}

	if directory := os.Getenv(EnvLogDirectory); directory != "" {
		config.Log.Directory = directory
	}

	if baseURL := os.Getenv(EnvPlausibleBaseURL); baseURL != "" {
		config.Plausible.BaseURL = baseURL
	}

	if apiVersion := os.Getenv(EnvPlausibleAPIVersion); apiVersion != "" {
		config.Plausible.APIVersion = apiVersion
	}

	if cacheType := os.Getenv(EnvCacheType); cacheType != "" {
		config.Cache.Type = strings.ToLower(cacheType)
	}

	// CACHE_TTL is expressed in seconds
	if ttlStr := os.Getenv(EnvCacheTTL); ttlStr != "" {
		seconds, err := strconv.Atoi(ttlStr)
		if err != nil || seconds <= 0 {
			return fmt.Errorf("%s must be a positive number of seconds, got %q", EnvCacheTTL, ttlStr)
		}
		config.Cache.DefaultTTL = model.Duration(time.Duration(seconds) * time.Second)
	}

	if address := os.Getenv(EnvRedisAddress); address != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		config.Redis.Address = address
	}

	if username := os.Getenv(EnvRedisUsername); username != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		config.Redis.Username = username
	}

	if password := os.Getenv(EnvRedisPassword); password != "" {
		if config.Redis == nil {
			config.Redis = &RedisConfig{}
		}
		config.Redis.Password = password
	}

	return nil
}

func validateConfig(config *Config) error {

	err := config.validateServerConfig()
	if err != nil {
		return err
	}

	err = config.validateLogConfig()
	if err != nil {
		return err
	}

	err = config.validateCORSConfig()
	if err != nil {
		return err
	}

	err = config.validateRateLimitConfig()
	if err != nil {
		return err
	}

	err = config.validatePlausibleConfig()
	if err != nil {
		return err
	}

	err = config.validateCacheConfig()
	if err != nil {
		return err
	}

	if config.Cache.Type == "redis" {
		err = config.validateRedisConfig()
		if err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) validateServerConfig() error {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerConfig.Port
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Server.Mode {
	case "":
		c.Server.Mode = DefaultServerConfig.Mode
	case ModeDevelopment, ModeProduction, ModeTest:
	default:
		return fmt.Errorf("invalid server mode: %s, options are development, production or test", c.Server.Mode)
	}

	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = DefaultServerConfig.MaxBodyBytes
	}

	if c.Server.Debug != nil && c.Server.Debug.Enabled {
		if c.Server.Debug.Host == "" {
			c.Server.Debug.Host = DefaultDebugConfig.Host
		}
		if c.Server.Debug.Port <= 0 || c.Server.Debug.Port >= 65535 {
			c.Server.Debug.Port = DefaultDebugConfig.Port
		}
	}

	return nil
}

func (c *Config) validateLogConfig() error {
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogConfig.Format
	} else {
		switch c.Log.Format {
		case "text", "json":
		default:
			return fmt.Errorf("invalid log format: %s, options are text or json", c.Log.Format)
		}
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogConfig.Level
	} else {
		switch c.Log.Level {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("invalid log level: %s, options are debug, info, warn, error", c.Log.Level)
		}
	}

	if c.Log.Directory == "" {
		c.Log.Directory = DefaultLogConfig.Directory
	}

	return nil
}

func (c *Config) validateCORSConfig() error {
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = DefaultCORSConfig.AllowedOrigins
	}
	if len(c.CORS.AllowedMethods) == 0 {
		c.CORS.AllowedMethods = DefaultCORSConfig.AllowedMethods
	}
	if len(c.CORS.AllowedHeaders) == 0 {
		c.CORS.AllowedHeaders = DefaultCORSConfig.AllowedHeaders
	}
	if len(c.CORS.ExposedHeaders) == 0 {
		c.CORS.ExposedHeaders = DefaultCORSConfig.ExposedHeaders
	}
	if c.CORS.AllowCredentials == nil {
		allow := true
		c.CORS.AllowCredentials = &allow
	}
	if c.CORS.MaxAgeSeconds == 0 {
		c.CORS.MaxAgeSeconds = DefaultCORSConfig.MaxAgeSeconds
	}

	for _, origin := range c.CORS.AllowedOrigins {
		if origin == "*" {
			continue
		}
		if err := validateURL(origin, "cors.allowed_origins"); err != nil {
			return err
		}
	}

	return nil
}

func (c *Config) validateRateLimitConfig() error {
	if c.RateLimit.Disabled {
		return nil
	}

	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = DefaultRateLimitConfig.Requests
	} else if c.RateLimit.Requests < 0 {
		return fmt.Errorf("rate_limit.requests must be positive, got %d", c.RateLimit.Requests)
	}

	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = DefaultRateLimitConfig.Window
	}

	return nil
}

func (c *Config) validatePlausibleConfig() error {
	if c.Plausible.BaseURL == "" {
		c.Plausible.BaseURL = DefaultPlausibleConfig.BaseURL
	}

	if err := validateURL(c.Plausible.BaseURL, "plausible.base_url"); err != nil {
		return err
	}
	c.Plausible.BaseURL = strings.TrimRight(c.Plausible.BaseURL, "/")

	if c.Plausible.APIVersion == "" {
		c.Plausible.APIVersion = DefaultPlausibleConfig.APIVersion
	}

	if c.Plausible.Timeout <= 0 {
		c.Plausible.Timeout = DefaultPlausibleConfig.Timeout
	}

	return nil
}

func (c *Config) validateCacheConfig() error {
	if c.Cache.Type == "" {
		c.Cache.Type = DefaultCacheConfig.Type
	}

	switch c.Cache.Type {
	case "memory":
		break
	case "redis":
		if c.Redis == nil {
			return fmt.Errorf("redis configuration must be enabled to use redis for data cache")
		}
	default:
		return fmt.Errorf("invalid cache type: %s, must be 'memory' or 'redis'", c.Cache.Type)
	}

	if c.Cache.DefaultTTL <= 0 {
		c.Cache.DefaultTTL = DefaultCacheConfig.DefaultTTL
	}

	ttls := []struct {
		name  string
		value *model.Duration
		def   model.Duration
	}{
		{"realtime", &c.Cache.TTL.Realtime, DefaultCacheConfig.TTL.Realtime},
		{"timeseries", &c.Cache.TTL.Timeseries, DefaultCacheConfig.TTL.Timeseries},
		{"aggregate", &c.Cache.TTL.Aggregate, DefaultCacheConfig.TTL.Aggregate},
		{"breakdown", &c.Cache.TTL.Breakdown, DefaultCacheConfig.TTL.Breakdown},
	}

	for _, ttl := range ttls {
		if *ttl.value == 0 {
			*ttl.value = ttl.def
		} else if *ttl.value < 0 {
			return fmt.Errorf("cache.ttl.%s cannot be negative", ttl.name)
		} else if time.Duration(*ttl.value) < time.Second {
			return fmt.Errorf("cache.ttl.%s cannot be less than 1s", ttl.name)
		}
	}

	return nil
}

func (c *Config) validateRedisConfig() error {
	if c.Redis == nil {
		return fmt.Errorf("redis config is nil")
	}

	if c.Redis.Address == "" {
		return fmt.Errorf("redis address is required")
	}

	if _, _, err := net.SplitHostPort(c.Redis.Address); err != nil {
		return fmt.Errorf("invalid redis address format (expected host:port): %w", err)
	}

	if c.Redis.CacheIndex == 0 {
		c.Redis.CacheIndex = DefaultRedisConfig.CacheIndex
	}

	const maxRedisDB = 15
	if c.Redis.CacheIndex < 0 || c.Redis.CacheIndex > maxRedisDB {
		return fmt.Errorf("redis cache_index must be between 0 and %d, got %d", maxRedisDB, c.Redis.CacheIndex)
	}

	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = DefaultRedisConfig.KeyPrefix
	}

	return nil
}
