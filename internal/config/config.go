package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Seeds      SeedsConfig      `yaml:"seeds" mapstructure:"seeds"`
	GitHub     GitHubConfig     `yaml:"github" mapstructure:"github"`
	Enrich     EnrichConfig     `yaml:"enrich" mapstructure:"enrich"`
	Auth       AuthConfig       `yaml:"auth" mapstructure:"auth"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Monitoring MonitoringConfig `yaml:"monitoring" mapstructure:"monitoring"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the metadata cache backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SeedsConfig points at the seed dataset. An empty path selects the
// embedded dataset.
type SeedsConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// GitHubConfig holds the repository metadata source settings.
type GitHubConfig struct {
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	Burst          int     `yaml:"burst" mapstructure:"burst"`
}

// EnrichConfig configures the enrichment fan-out and cache.
type EnrichConfig struct {
	Concurrency      int `yaml:"concurrency" mapstructure:"concurrency"`
	CacheTTLHours    int `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
	BreakerThreshold int `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
	BreakerResetSecs int `yaml:"breaker_reset_secs" mapstructure:"breaker_reset_secs"`
}

// AuthConfig holds the sign-in credentials and token settings. Bypass
// reproduces a legacy always-signed-in behavior and defaults to off.
type AuthConfig struct {
	Email         string `yaml:"email" mapstructure:"email"`
	Password      string `yaml:"password" mapstructure:"password"`
	Secret        string `yaml:"secret" mapstructure:"secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours" mapstructure:"token_ttl_hours"`
	Bypass        bool   `yaml:"bypass" mapstructure:"bypass"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	DebounceMillis int      `yaml:"debounce_millis" mapstructure:"debounce_millis"`
}

// MonitoringConfig configures the background health checker.
type MonitoringConfig struct {
	CheckIntervalSecs    int     `yaml:"check_interval_secs" mapstructure:"check_interval_secs"`
	FailureRateThreshold float64 `yaml:"failure_rate_threshold" mapstructure:"failure_rate_threshold"`
	WebhookURL           string  `yaml:"webhook_url" mapstructure:"webhook_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks the fields required for the given run mode. Modes are
// the command names: "serve" needs the full HTTP surface, "cli" only
// the enrichment path.
func (c *Config) Validate(mode string) error {
	var problems []string

	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	check(c.Enrich.Concurrency >= 1 && c.Enrich.Concurrency <= 50,
		"enrich.concurrency must be between 1 and 50")
	check(c.Enrich.CacheTTLHours >= 0, "enrich.cache_ttl_hours must be >= 0")
	check(c.GitHub.RequestsPerSec > 0, "github.requests_per_sec must be > 0")

	switch mode {
	case "serve":
		check(c.Server.Port > 0, "server.port must be > 0")
		check(c.Server.DebounceMillis >= 0, "server.debounce_millis must be >= 0")
		check(c.Auth.Secret != "", "auth.secret is required")
		if !c.Auth.Bypass {
			check(c.Auth.Email != "", "auth.email is required")
			check(c.Auth.Password != "", "auth.password is required")
		}
	case "cli":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("AGENCY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.debounce_millis", 300)
	v.SetDefault("github.base_url", "https://ytheys.ossean.in")
	v.SetDefault("github.requests_per_sec", 10)
	v.SetDefault("github.burst", 10)
	v.SetDefault("enrich.concurrency", 8)
	v.SetDefault("enrich.cache_ttl_hours", 6)
	v.SetDefault("enrich.breaker_threshold", 5)
	v.SetDefault("enrich.breaker_reset_secs", 30)
	v.SetDefault("auth.email", "test@ossean.in")
	v.SetDefault("auth.password", "devpass123")
	v.SetDefault("auth.secret", "dev-only-secret")
	v.SetDefault("auth.token_ttl_hours", 24)
	v.SetDefault("auth.bypass", false)
	v.SetDefault("monitoring.check_interval_secs", 300)
	v.SetDefault("monitoring.failure_rate_threshold", 0.5)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
