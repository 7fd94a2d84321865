package config

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"draftdesk/internal/bootstrap/logging"
	"draftdesk/internal/errs"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Portal     PortalConfig     `mapstructure:"portal"`
	Checklists ChecklistsConfig `mapstructure:"checklists"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// PortalConfig describes the external HTML portal we scrape orders from.
// ClockSkewHours compensates a known upstream clock misconfiguration; it is
// config, not business logic, and should be revalidated against the source
// periodically.
type PortalConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	SourceTimezone string        `mapstructure:"source_timezone"`
	LocalTimezone  string        `mapstructure:"local_timezone"`
	ClockSkewHours int           `mapstructure:"clock_skew_hours"`
	MaxPages       int           `mapstructure:"max_pages"`
	PageDelay      time.Duration `mapstructure:"page_delay"`
	FetchTimeout   time.Duration `mapstructure:"fetch_timeout"`
	RetryCount     int           `mapstructure:"retry_count"`
	RetryDelay     time.Duration `mapstructure:"retry_delay"`
}

// HasCredentials reports whether the portal can be scraped at all. Without
// credentials the import pipeline degrades to a logged no-op.
func (p PortalConfig) HasCredentials() bool {
	return strings.TrimSpace(p.BaseURL) != "" &&
		strings.TrimSpace(p.Username) != "" &&
		strings.TrimSpace(p.Password) != ""
}

type ChecklistsConfig struct {
	File string `mapstructure:"file"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			logging.Warn(logCtx, "config file not found, using defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if cfg.Database.DSN == "" {
		return Config{}, errors.New("database.dsn is required")
	}
	if cfg.Portal.MaxPages <= 0 {
		return Config{}, errors.New("portal.max_pages must be positive")
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
		slog.Bool("portal_configured", cfg.Portal.HasCredentials()),
	)

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "draftdesk")
	v.SetDefault("app.env", "local")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", ".draftdesk/state/orders.sqlite")
	v.SetDefault("portal.source_timezone", "Australia/Sydney")
	v.SetDefault("portal.local_timezone", "Asia/Karachi")
	v.SetDefault("portal.clock_skew_hours", 6)
	v.SetDefault("portal.max_pages", 100)
	v.SetDefault("portal.page_delay", time.Second)
	v.SetDefault("portal.fetch_timeout", 30*time.Second)
	v.SetDefault("portal.retry_count", 3)
	v.SetDefault("portal.retry_delay", time.Minute)
	v.SetDefault("checklists.file", "checklists.toml")
}
