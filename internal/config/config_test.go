package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "data/moduli.csv", cfg.InputPath)
	assert.Equal(t, "data/product_tree", cfg.TreeDir)
	assert.Equal(t, string(VariantFrugal), cfg.Variant)
	assert.Equal(t, 0, cfg.Workers)
}

func TestLoadRejectsUnsupportedVariant(t *testing.T) {
	v := viper.New()
	v.Set("variant", "quantum")

	_, err := Load(v, "")
	assert.Error(t, err)
}

func TestLoadRejectsNegativeWorkers(t *testing.T) {
	v := viper.New()
	v.Set("workers", -1)

	_, err := Load(v, "")
	assert.Error(t, err)
}

func TestLoadMissingConfigFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "/does/not/exist.yaml")
	require.NoError(t, err)
	assert.Equal(t, string(VariantFrugal), cfg.Variant)
}
