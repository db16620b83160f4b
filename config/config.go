package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config application configuration
type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Gemini   GeminiConfig   `mapstructure:"gemini"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Log      LogConfig      `mapstructure:"log"`
}

type TelegramConfig struct {
	Token         string `mapstructure:"token"`
	AdminPassword string `mapstructure:"admin_password"` // empty disables /admin
}

// GeminiConfig advisor settings; an empty key puts the advisor in maintenance mode
type GeminiConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float32       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type StorageConfig struct {
	AdviceDBPath      string `mapstructure:"advice_db_path"` // empty keeps the log in memory
	AdviceHistorySize int    `mapstructure:"advice_history_size"`
}

type CatalogConfig struct {
	Path     string `mapstructure:"path"`
	Watch    bool   `mapstructure:"watch"`
	Currency string `mapstructure:"currency"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text | json
}

// Load reads .env, then the optional YAML file, then environment overrides.
// With an empty path config.yaml is looked up in the working directory and
// may be absent.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envAliases environment names accepted besides the automatic KEY_NAME form
var envAliases = map[string][]string{
	"telegram.token":          {"TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN"},
	"telegram.admin_password": {"TELEGRAM_ADMIN_PASSWORD", "ADMIN_PASSWORD"},
	"gemini.api_key":          {"GEMINI_API_KEY", "API_KEY"},
	"storage.advice_db_path":  {"STORAGE_ADVICE_DB_PATH", "ADVICE_DB_PATH"},
	"catalog.path":            {"CATALOG_PATH"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.admin_password", "")

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-3-flash-preview")
	v.SetDefault("gemini.temperature", 0.7)
	v.SetDefault("gemini.timeout", 20*time.Second)

	v.SetDefault("storage.advice_db_path", "data/advice.db")
	v.SetDefault("storage.advice_history_size", 20)

	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.watch", false)
	v.SetDefault("catalog.currency", "PKR")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Validate checks required and bounded values
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return errors.New("telegram.token is empty (set TELEGRAM_BOT_TOKEN)")
	}
	if c.Gemini.Timeout <= 0 {
		return fmt.Errorf("gemini.timeout must be positive, got %s", c.Gemini.Timeout)
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		return fmt.Errorf("gemini.temperature out of range: %v", c.Gemini.Temperature)
	}
	if c.Storage.AdviceHistorySize <= 0 {
		return fmt.Errorf("storage.advice_history_size must be positive, got %d", c.Storage.AdviceHistorySize)
	}
	if c.Catalog.Watch && c.Catalog.Path == "" {
		return errors.New("catalog.watch requires catalog.path")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
