package config

import (
	configutil "github.com/fox-one/pkg/config"
)

// Load load config file
func Load(configFile string, config *Config) error {
	configutil.AutomaticLoadEnv("FARM")
	if err := configutil.LoadYaml(configFile, config); err != nil {
		return err
	}

	defaultApp(config)
	return nil
}

// defaultApp fills the knobs a minimal config leaves out. A zero
// rate would stall every accrual computation, so it always lands on
// one full period per day.
func defaultApp(cfg *Config) {
	if cfg.App.Rate == 0 {
		cfg.App.Rate = 86400
	}

	if cfg.Oracle.PriceThreshold == 0 {
		cfg.Oracle.PriceThreshold = 1
	}
}
