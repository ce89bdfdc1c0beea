// Package config provides configuration management for the trading journal.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"tradejournal/internal/models"
)

// Config holds all application configuration.
type Config struct {
	Account       AccountConfig      `mapstructure:"account"`
	Risk          RiskConfig         `mapstructure:"risk"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Scheduler     SchedulerConfig    `mapstructure:"scheduler"`
	Logging       LoggingConfig      `mapstructure:"logging"`
}

// AccountConfig holds account-level settings.
type AccountConfig struct {
	Balance float64 `mapstructure:"balance"`
}

// RiskConfig holds the position-sizing strategy settings.
type RiskConfig struct {
	Strategy       string               `mapstructure:"strategy"` // FixedPercent, AntiMartingale
	FixedPercent   FixedPercentConfig   `mapstructure:"fixed_percent"`
	AntiMartingale AntiMartingaleConfig `mapstructure:"anti_martingale"`
}

// FixedPercentConfig holds the flat risk percent per trade.
type FixedPercentConfig struct {
	Risk float64 `mapstructure:"risk"`
}

// AntiMartingaleConfig holds the streak-dependent risk percents.
type AntiMartingaleConfig struct {
	BaseRisk  float64 `mapstructure:"base_risk"`
	Increment float64 `mapstructure:"increment"`
	MaxRisk   float64 `mapstructure:"max_risk"`
}

// NotificationConfig holds the notification on/off switches.
type NotificationConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PriceAlerts bool `mapstructure:"price_alerts"`
	NewsAlerts  bool `mapstructure:"news_alerts"`
}

// SchedulerConfig holds the alert polling settings.
type SchedulerConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradejournal"
	}
	return filepath.Join(home, ".config", "tradejournal")
}

// Load loads configuration from the specified directory, creating a
// template config on first run. If configDir is empty the default config
// directory is used.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := writeTemplateConfig(configDir); err != nil {
				return nil, fmt.Errorf("creating template config: %w", err)
			}
		} else {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("account.balance", 10000.0)
	v.SetDefault("risk.strategy", string(models.StrategyFixedPercent))
	v.SetDefault("risk.fixed_percent.risk", 1.0)
	v.SetDefault("risk.anti_martingale.base_risk", 0.5)
	v.SetDefault("risk.anti_martingale.increment", 0.25)
	v.SetDefault("risk.anti_martingale.max_risk", 2.0)
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.price_alerts", true)
	v.SetDefault("notifications.news_alerts", true)
	v.SetDefault("scheduler.interval", "5s")
	v.SetDefault("logging.level", "info")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	switch models.RiskStrategy(c.Risk.Strategy) {
	case models.StrategyFixedPercent, models.StrategyAntiMartingale:
	default:
		return fmt.Errorf("invalid risk strategy: %s", c.Risk.Strategy)
	}
	if c.Risk.FixedPercent.Risk < 0 || c.Risk.FixedPercent.Risk > 100 {
		return fmt.Errorf("risk.fixed_percent.risk must be between 0 and 100")
	}
	am := c.Risk.AntiMartingale
	if am.BaseRisk < 0 || am.Increment < 0 || am.MaxRisk < 0 {
		return fmt.Errorf("anti-martingale percents must be non-negative")
	}
	if am.MaxRisk < am.BaseRisk {
		return fmt.Errorf("risk.anti_martingale.max_risk must be >= base_risk")
	}
	if c.Scheduler.Interval < 0 {
		return fmt.Errorf("scheduler.interval must be non-negative")
	}
	return nil
}

// RiskSettings converts the configuration into the domain snapshot the
// sizing engine consumes.
func (c *Config) RiskSettings() models.RiskSettings {
	return models.RiskSettings{
		AccountBalance: c.Account.Balance,
		Strategy:       models.RiskStrategy(c.Risk.Strategy),
		FixedPercent: models.FixedPercentSettings{
			Risk: c.Risk.FixedPercent.Risk,
		},
		AntiMartingale: models.AntiMartingaleSettings{
			BaseRisk:  c.Risk.AntiMartingale.BaseRisk,
			Increment: c.Risk.AntiMartingale.Increment,
			MaxRisk:   c.Risk.AntiMartingale.MaxRisk,
		},
	}
}
