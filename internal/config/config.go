package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/2beens/big3stats/internal/big3"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"-"`
	Host        string
	Port        int
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// big3 data source
	SheetID                 string `toml:"sheet_id"`
	SheetName               string `toml:"sheet_name"`
	SheetsBaseURL           string `toml:"sheets_base_url"`
	SheetsRequestsPerMinute int    `toml:"sheets_requests_per_minute"`
	// when set, the log is read from this .xlsx export instead of the sheet
	XLSXPath string `toml:"xlsx_path"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// requests per minute per client ip on the big3 routes
	RateLimitPerMinute int `toml:"rate_limit_per_minute"`
	// allowed CORS origins
	AllowedOrigins []string `toml:"allowed_origins"`
	// prometheus
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// chart axis padding per field
	Padding big3.Padding `toml:"padding"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML file and returns the config section for env.
// Fields missing from the file get their defaults.
func Load(env, path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(env, string(raw))
}

func Parse(env, data string) (*Config, error) {
	t := &Toml{
		Development: defaultConfig(),
		Production:  defaultConfig(),
	}
	md, err := toml.Decode(data, t)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config keys: %v", undecoded)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.Environment = strings.ToLower(env)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Host:                    "localhost",
		Port:                    9000,
		LogLevel:                "info",
		LogToStdout:             true,
		SheetsRequestsPerMinute: 30,
		RedisHost:               "localhost",
		RedisPort:               "6379",
		RateLimitPerMinute:      60,
		PrometheusMetricsHost:   "localhost",
		PrometheusMetricsPort:   "2112",
		Padding:                 big3.DefaultPadding,
	}
}

func (c *Config) validate() error {
	if c.SheetID == "" && c.XLSXPath == "" {
		return fmt.Errorf("config: one of sheet_id or xlsx_path must be set")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Port)
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("config: rate_limit_per_minute must be positive")
	}
	p := c.Padding
	if p.Lift < 0 || p.Total < 0 || p.BodyWeight < 0 || p.Ratio < 0 {
		return fmt.Errorf("config: padding must not be negative")
	}
	return nil
}
