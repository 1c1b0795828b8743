package config

import (
	"errors"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultAPIURL is the deployed scoring backend.
const DefaultAPIURL = "https://fraud-detection-test-deployment.onrender.com/"

// Upper bounds for the per-operation timeout budgets.
const (
	MaxCategoryTimeout   = 3 * time.Second
	MaxMonitoringTimeout = 60 * time.Second
)

// Config holds the full application configuration.
type Config struct {
	API    APIConfig    `yaml:"api" mapstructure:"api"`
	Form   FormConfig   `yaml:"form" mapstructure:"form"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// APIConfig locates the scoring backend and bounds every call to it.
type APIConfig struct {
	URL                   string `yaml:"url" mapstructure:"url"`
	CategoryTimeoutSecs   int    `yaml:"category_timeout_secs" mapstructure:"category_timeout_secs"`
	ScoreTimeoutSecs      int    `yaml:"score_timeout_secs" mapstructure:"score_timeout_secs"`
	MonitoringTimeoutSecs int    `yaml:"monitoring_timeout_secs" mapstructure:"monitoring_timeout_secs"`
}

// CategoryTimeout is the budget for the category catalog lookup.
func (c APIConfig) CategoryTimeout() time.Duration {
	return time.Duration(c.CategoryTimeoutSecs) * time.Second
}

// ScoreTimeout is the budget for a single POST /predict.
func (c APIConfig) ScoreTimeout() time.Duration {
	return time.Duration(c.ScoreTimeoutSecs) * time.Second
}

// MonitoringTimeout is the budget for each monitoring read.
func (c APIConfig) MonitoringTimeout() time.Duration {
	return time.Duration(c.MonitoringTimeoutSecs) * time.Second
}

// FormConfig caps the numeric form inputs.
type FormConfig struct {
	MaxAmount     float64 `yaml:"max_amount" mapstructure:"max_amount"`
	MaxVolumeMavg float64 `yaml:"max_volume_mavg" mapstructure:"max_volume_mavg"`
	MaxVolumeMstd float64 `yaml:"max_volume_mstd" mapstructure:"max_volume_mstd"`
	MaxTransFreq  int     `yaml:"max_trans_freq" mapstructure:"max_trans_freq"`
}

// ServerConfig configures the local dashboard server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file, .env and environment.
func Load() (*Config, error) {
	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: read .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FRAUD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api.url", "FRAUD_API_URL", "API_URL"); err != nil {
		return nil, eris.Wrap(err, "config: bind API_URL")
	}

	// Defaults
	v.SetDefault("api.url", DefaultAPIURL)
	v.SetDefault("api.category_timeout_secs", 3)
	v.SetDefault("api.score_timeout_secs", 30)
	v.SetDefault("api.monitoring_timeout_secs", 60)
	v.SetDefault("form.max_amount", 50000.0)
	v.SetDefault("form.max_volume_mavg", 10000.0)
	v.SetDefault("form.max_volume_mstd", 5000.0)
	v.SetDefault("form.max_trans_freq", 50)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")

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

// Validate checks that the configuration can drive the client.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return eris.Errorf("config: api.url %q is not an absolute URL", c.API.URL)
	}
	if c.API.CategoryTimeoutSecs <= 0 || c.API.ScoreTimeoutSecs <= 0 || c.API.MonitoringTimeoutSecs <= 0 {
		return eris.New("config: api timeouts must be positive")
	}
	if c.API.CategoryTimeout() > MaxCategoryTimeout {
		return eris.Errorf("config: api.category_timeout_secs must be at most %d", int(MaxCategoryTimeout.Seconds()))
	}
	if c.API.MonitoringTimeout() > MaxMonitoringTimeout {
		return eris.Errorf("config: api.monitoring_timeout_secs must be at most %d", int(MaxMonitoringTimeout.Seconds()))
	}
	if c.Form.MaxAmount <= 0 {
		return eris.New("config: form.max_amount must be positive")
	}
	if c.Form.MaxVolumeMavg <= 0 || c.Form.MaxVolumeMstd <= 0 || c.Form.MaxTransFreq < 1 {
		return eris.New("config: form volume and frequency caps must be positive")
	}
	return nil
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
