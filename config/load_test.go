package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultApp(t *testing.T) {
	var cfg Config
	defaultApp(&cfg)

	assert.Equal(t, uint64(86400), cfg.App.Rate)
	assert.Equal(t, 1, cfg.Oracle.PriceThreshold)
}

func TestDefaultAppKeepsExplicitValues(t *testing.T) {
	var cfg Config
	cfg.App.Rate = 3600
	cfg.Oracle.PriceThreshold = 3
	defaultApp(&cfg)

	assert.Equal(t, uint64(3600), cfg.App.Rate)
	assert.Equal(t, 3, cfg.Oracle.PriceThreshold)
}
