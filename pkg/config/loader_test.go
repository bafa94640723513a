package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labelgrid/entitlements/pkg/config"
)

func TestLoad(t *testing.T) {
	type ledgerConfig struct {
		ConnURL    string `env:"TEST_LEDGER_CONN_URL,required"`
		MaxConns   int    `env:"TEST_LEDGER_MAX_CONNS" envDefault:"10"`
		StreamName string `env:"TEST_LEDGER_STREAM" envDefault:"usage:events"`
	}

	t.Setenv("TEST_LEDGER_CONN_URL", "postgres://localhost:5432/entitlements")

	var cfg ledgerConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "postgres://localhost:5432/entitlements", cfg.ConnURL)
	assert.Equal(t, 10, cfg.MaxConns)
	assert.Equal(t, "usage:events", cfg.StreamName)

	// Same type is served from cache, ignoring later env changes.
	t.Setenv("TEST_LEDGER_MAX_CONNS", "50")
	var again ledgerConfig
	require.NoError(t, config.Load(&again))
	assert.Equal(t, 10, again.MaxConns)
}

func TestLoad_MissingRequired(t *testing.T) {
	type strictConfig struct {
		Secret string `env:"TEST_ABSENT_SECRET,required"`
	}

	var cfg strictConfig
	err := config.Load(&cfg)
	require.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoad_NilPointer(t *testing.T) {
	t.Parallel()

	err := config.Load[struct{}](nil)
	require.ErrorIs(t, err, config.ErrNilPointer)
}

func TestMustLoad_PanicsOnFailure(t *testing.T) {
	type requiredConfig struct {
		Token string `env:"TEST_ABSENT_TOKEN,required"`
	}

	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})
}
