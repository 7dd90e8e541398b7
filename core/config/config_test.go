package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailkit/core/config"
)

type throttleConfig struct {
	DelayMS int    `env:"TEST_SEND_DELAY_MS" envDefault:"2000"`
	Name    string `env:"TEST_FROM_NAME"`
}

type requiredConfig struct {
	Token string `env:"TEST_REQUIRED_TOKEN_MISSING,required"`
}

func TestLoad(t *testing.T) {
	t.Setenv("TEST_FROM_NAME", "Acme")

	var cfg throttleConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, 2000, cfg.DelayMS, "default applies when env is unset")
	assert.Equal(t, "Acme", cfg.Name)
}

func TestLoad_Cached(t *testing.T) {
	t.Setenv("TEST_FROM_NAME", "Acme")

	var first throttleConfig
	require.NoError(t, config.Load(&first))

	// Changing the environment after the first load has no effect: the type
	// is cached for the process lifetime.
	t.Setenv("TEST_FROM_NAME", "Other")

	var second throttleConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, first, second)
}

func TestLoad_RequiredMissing(t *testing.T) {
	var cfg requiredConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TEST_REQUIRED_TOKEN_MISSING")
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})
}
