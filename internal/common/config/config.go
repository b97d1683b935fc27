package config

// Config is the main application configuration struct.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	MelhorEnvio MelhorEnvioConfig `mapstructure:"melhorenvio"`
	RateLimit   RateLimitConfig   `mapstructure:"ratelimit"`
	Batch       BatchConfig       `mapstructure:"batch"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// MelhorEnvioConfig holds settings for the upstream quote API.
type MelhorEnvioConfig struct {
	BaseURL     string `mapstructure:"base_url"`
	Token       string `mapstructure:"token"`
	Timeout     int    `mapstructure:"timeout"`      // milliseconds, per request
	MaxRetries  int    `mapstructure:"max_retries"`  // retries on 429/5xx
	BackoffBase int    `mapstructure:"backoff_base"` // milliseconds
}

// RateLimitConfig holds settings for the sliding-window request throttle.
type RateLimitConfig struct {
	MaxPerMinute int `mapstructure:"max_per_minute"`
	WindowMs     int `mapstructure:"window_ms"`
	PollMs       int `mapstructure:"poll_ms"` // wait between admission attempts
}

// BatchConfig holds settings for concurrent variant dispatch.
type BatchConfig struct {
	Size int `mapstructure:"size"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
