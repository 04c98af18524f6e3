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
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Assets    AssetsConfig    `yaml:"assets" mapstructure:"assets"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Liftie    LiftieConfig    `yaml:"liftie" mapstructure:"liftie"`
	Weather   WeatherConfig   `yaml:"weather" mapstructure:"weather"`
	Wiki      WikiConfig      `yaml:"wiki" mapstructure:"wiki"`
	Enrich    EnrichConfig    `yaml:"enrich" mapstructure:"enrich"`
	Sync      SyncConfig      `yaml:"sync" mapstructure:"sync"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AssetsConfig configures the object-store bucket holding per-resort files.
type AssetsConfig struct {
	Bucket string `yaml:"bucket" mapstructure:"bucket"`
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// LiftieConfig configures the lift-status provider.
type LiftieConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// WeatherConfig configures the Open-Meteo forecast provider.
type WeatherConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// WikiConfig configures the MediaWiki and Wikidata endpoints.
type WikiConfig struct {
	APIBaseURL     string `yaml:"api_base_url" mapstructure:"api_base_url"`
	WikidataAPIURL string `yaml:"wikidata_api_url" mapstructure:"wikidata_api_url"`
}

// EnrichConfig configures the AI extraction pass.
type EnrichConfig struct {
	MinConfidence float64 `yaml:"min_confidence" mapstructure:"min_confidence"`
}

// SyncConfig configures pacing of batch runs.
type SyncConfig struct {
	DelayMillis int `yaml:"delay_millis" mapstructure:"delay_millis"`
	BatchSize   int `yaml:"batch_size" mapstructure:"batch_size"`
}

// ServerConfig configures the admin API server.
type ServerConfig struct {
	Port       int    `yaml:"port" mapstructure:"port"`
	AdminToken string `yaml:"admin_token" mapstructure:"admin_token"`
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
	v.SetEnvPrefix("RESORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about. Secrets
	// have no defaults to register them, so bind every recognized key.
	for _, key := range []string{
		"store.driver", "store.database_url",
		"assets.bucket", "assets.prefix",
		"anthropic.key", "anthropic.model", "anthropic.max_tokens",
		"liftie.base_url", "weather.base_url",
		"wiki.api_base_url", "wiki.wikidata_api_url",
		"enrich.min_confidence",
		"sync.delay_millis", "sync.batch_size",
		"server.port", "server.admin_token",
		"log.level", "log.format",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, eris.Wrapf(err, "config: bind env for %s", key)
		}
	}

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("assets.prefix", "resorts")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("liftie.base_url", "https://liftie.info")
	v.SetDefault("weather.base_url", "https://api.open-meteo.com")
	v.SetDefault("wiki.api_base_url", "https://en.wikipedia.org/w/api.php")
	v.SetDefault("wiki.wikidata_api_url", "https://www.wikidata.org/w/api.php")
	v.SetDefault("enrich.min_confidence", 0.7)
	v.SetDefault("sync.delay_millis", 500)
	v.SetDefault("sync.batch_size", 25)

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

// Validate checks that everything a given mode needs is present. All
// problems are reported in one error so an operator can fix the
// environment in a single pass rather than one variable at a time.
func (c *Config) Validate(mode string) error {
	var problems []string

	// The sqlite driver falls back to a local file when no URL is set.
	needsDatabaseURL := c.Store.Driver != "sqlite" && c.Store.DatabaseURL == ""

	switch mode {
	case "sync":
		if needsDatabaseURL {
			problems = append(problems, "store.database_url is required")
		}
	case "enrich":
		if needsDatabaseURL {
			problems = append(problems, "store.database_url is required")
		}
		if c.Anthropic.Key == "" {
			problems = append(problems, "anthropic.key is required")
		}
		if c.Assets.Bucket == "" {
			problems = append(problems, "assets.bucket is required")
		}
	case "assets":
		if c.Assets.Bucket == "" {
			problems = append(problems, "assets.bucket is required")
		}
	case "serve":
		if needsDatabaseURL {
			problems = append(problems, "store.database_url is required")
		}
		if c.Server.AdminToken == "" {
			problems = append(problems, "server.admin_token is required")
		}
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Enrich.MinConfidence < 0 || c.Enrich.MinConfidence > 1 {
		problems = append(problems, "enrich.min_confidence must be between 0 and 1")
	}
	if c.Sync.DelayMillis < 0 {
		problems = append(problems, "sync.delay_millis must be >= 0")
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
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
