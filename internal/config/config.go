package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const EnvPrefix = "ARTICLES"

// Store drivers.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Log    LogConfig    `mapstructure:"log"`

	v *viper.Viper
}

type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	DiagAddr          string        `mapstructure:"diag_addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type StoreConfig struct {
	// Driver is one of: file | memory | sqlite3 | postgres.
	Driver string `mapstructure:"driver"`

	// Path is the JSON document used by the file driver.
	Path string `mapstructure:"path"`

	// DSN is the data source name for the SQL drivers.
	DSN string `mapstructure:"dsn"`

	// CreateIfMissing seeds an empty collection on startup.
	CreateIfMissing bool `mapstructure:"create_if_missing"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":3333")
	v.SetDefault("server.diag_addr", ":9999")
	v.SetDefault("server.read_header_timeout", 5*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("store.driver", DriverFile)
	v.SetDefault("store.path", "./data/articles.json")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.create_if_missing", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load builds the configuration from defaults, an optional config file and
// ARTICLES_* environment variables. With an empty path, config.yaml is looked
// up in . and ./config and its absence is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.v = v

	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Store.Driver {
	case DriverFile:
		if cfg.Store.Path == "" {
			return errors.New("store.path is required for the file driver")
		}
	case DriverSQLite, DriverPostgres:
		if cfg.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the %s driver", cfg.Store.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("store.driver %q unknown: want file|memory|sqlite3|postgres", cfg.Store.Driver)
	}

	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return err
	}

	if cfg.Server.Addr == "" {
		return errors.New("server.addr must not be empty")
	}

	return nil
}

// ParseLevel maps a level name such as "debug" or "warn" to a zap level.
func ParseLevel(name string) (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return lvl, fmt.Errorf("log.level: %w", err)
	}

	return lvl, nil
}

// File returns the config file in use, or "" when running on defaults.
func (c *Config) File() string {
	if c.v == nil {
		return ""
	}

	return c.v.ConfigFileUsed()
}

// Watch reloads the config file whenever it is written and calls onChange
// with the new configuration. An invalid file is reported to onError and the
// previous configuration stays in effect.
func (c *Config) Watch(onChange func(*Config), onError func(error)) {
	if c.File() == "" {
		return
	}

	c.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}

		next, err := unmarshal(c.v)
		if err != nil {
			onError(err)
			return
		}

		onChange(next)
	})
	c.v.WatchConfig()
}
