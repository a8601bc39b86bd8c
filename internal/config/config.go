package config

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/aimana007/ChronyTop/internal/errors"
)

const (
	DefaultInterval    = 1
	DefaultTimeout     = 2
	DefaultHistorySize = 120
	DefaultChronycPath = "chronyc"
	DefaultLogLevel    = "info"
	DefaultDBPath      = "/var/lib/chronytop/telemetry.db"

	envPrefix = "CHRONYTOP"
)

type Config struct {
	Interval    int    `mapstructure:"interval"`
	Timeout     int    `mapstructure:"timeout"`
	HistorySize int    `mapstructure:"history"`
	ChronycPath string `mapstructure:"chronyc"`
	Monitor     bool   `mapstructure:"monitor"`
	Telemetry   bool   `mapstructure:"telemetry"`
	TelemetryDB string `mapstructure:"database"`
	LogLevel    string `mapstructure:"log_level"`
	Debug       bool   `mapstructure:"debug"`
	Verbose     bool   `mapstructure:"verbose"`
}

func Load() (*Config, error) {
	errFactory := errors.New()
	v := viper.New()

	flags := pflag.NewFlagSet("chronytop", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	configFlag := flags.String("config", "", "Path to config file")
	flags.Int("interval", DefaultInterval, "Seconds between poll cycles")
	flags.Int("timeout", DefaultTimeout, "Timeout for chronyc calls in seconds")
	flags.Int("history", DefaultHistorySize, "Rolling history capacity in samples")
	flags.String("chronyc", DefaultChronycPath, "Path to the chronyc binary")
	flags.Bool("monitor", false, "Log full snapshot state every cycle")
	flags.Bool("telemetry", false, "Enable telemetry collection")
	flags.String("database", DefaultDBPath, "Path to telemetry database")
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	flags.Bool("debug", false, "Enable debugging mode")
	flags.Bool("verbose", false, "Enable verbose logging")

	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("history", DefaultHistorySize)
	v.SetDefault("chronyc", DefaultChronycPath)
	v.SetDefault("database", DefaultDBPath)
	v.SetDefault("log_level", DefaultLogLevel)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	configPath := *configFlag
	if configPath == "" {
		configPath = os.Getenv(envPrefix + "_CONFIG")
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("chronytop")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	flags.Visit(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		v.Set(key, f.Value.String())
	})

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval < 1 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if c.Timeout < 1 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Timeout)
	}
	if c.HistorySize < 2 {
		return errFactory.WithData(errors.ErrInvalidConfig, c.HistorySize)
	}

	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}
