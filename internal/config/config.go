package config

import (
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultQueryURL is the Chattanooga PUD / special permit FeatureServer layer.
const DefaultQueryURL = "https://services2.arcgis.com/cclAu9OKhOfjeUdr/ArcGIS/rest/services/Chatt_PUD_spermit_1_18_25/FeatureServer/0/query"

// Config holds the full application configuration.
type Config struct {
	ArcGIS ArcGISConfig `yaml:"arcgis" mapstructure:"arcgis"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// ArcGISConfig configures the FeatureServer query and paging.
type ArcGISConfig struct {
	QueryURL    string  `yaml:"query_url" mapstructure:"query_url"`
	PageSize    int     `yaml:"page_size" mapstructure:"page_size"`
	MaxPages    int     `yaml:"max_pages" mapstructure:"max_pages"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries" mapstructure:"max_retries"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
}

// OutputConfig configures the file writer.
type OutputConfig struct {
	Path   string `yaml:"path" mapstructure:"path"`
	Format string `yaml:"format" mapstructure:"format"`
}

// StoreConfig configures the optional Postgres sink.
type StoreConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Schema      string `yaml:"schema" mapstructure:"schema"`
	Table       string `yaml:"table" mapstructure:"table"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PUD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("arcgis.query_url", DefaultQueryURL)
	v.SetDefault("arcgis.page_size", 100)
	v.SetDefault("arcgis.max_pages", 10000)
	v.SetDefault("arcgis.timeout_secs", 60)
	v.SetDefault("arcgis.max_retries", 3)
	v.SetDefault("arcgis.rate_limit", 5.0)
	v.SetDefault("arcgis.user_agent", "pud-zones/1.0")
	v.SetDefault("output.path", "pud_zones.csv")
	v.SetDefault("output.format", "csv")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.schema", "geo")
	v.SetDefault("store.table", "pud_zones")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks the values required by the given command mode
// ("fetch" or "load"). All problems are reported together.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "fetch", "load":
	default:
		return eris.Errorf("config: unknown validation mode %q", mode)
	}

	if c.ArcGIS.QueryURL == "" {
		problems = append(problems, "arcgis.query_url is required")
	} else if u, err := url.Parse(c.ArcGIS.QueryURL); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, "arcgis.query_url must be an absolute URL")
	}
	if c.ArcGIS.PageSize <= 0 {
		problems = append(problems, "arcgis.page_size must be positive")
	}
	if c.ArcGIS.MaxPages <= 0 {
		problems = append(problems, "arcgis.max_pages must be positive")
	}

	if mode == "fetch" {
		if c.Output.Path == "" {
			problems = append(problems, "output.path is required")
		}
		if c.Output.Format == "" {
			problems = append(problems, "output.format is required")
		}
	}

	if mode == "load" {
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required")
		}
		if c.Store.Schema == "" {
			problems = append(problems, "store.schema is required")
		}
		if c.Store.Table == "" {
			problems = append(problems, "store.table is required")
		}
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
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
