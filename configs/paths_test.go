package configs

import (
	"fmt"
	HEMatch "hematch"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaths(t *testing.T) {
	root := HEMatch.FindRootPath()
	fmt.Println(root)

	t.Run("Test module root", func(t *testing.T) {
		assert.FileExists(t, filepath.Join(root, "go.mod"))
	})

	t.Run("Test descriptor extension", func(t *testing.T) {
		assert.Equal(t, ".npy", filepath.Ext("s1_1"+DescriptorExt))
	})
}

func TestConfig(t *testing.T) {
	t.Run("Default config is valid", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})

	t.Run("Rejects bad fields", func(t *testing.T) {
		for name, mutate := range map[string]func(*Config){
			"empty dir":     func(c *Config) { c.CorpusDir = "" },
			"zero length":   func(c *Config) { c.DescriptorLength = 0 },
			"no delimiter":  func(c *Config) { c.Delimiter = "" },
			"no workers":    func(c *Config) { c.Workers = 0 },
			"negative cap":  func(c *Config) { c.Limit = -1 },
			"unknown param": func(c *Config) { c.ParamSet = "PN16" },
		} {
			cfg := DefaultConfig()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig, name)
		}
	})

	t.Run("Default parameters leave room for the maximum distance", func(t *testing.T) {
		lit, err := Literal(ParamSetDefault)
		require.NoError(t, err)
		assert.Greater(t, lit.PlaintextModulus, uint64(BitsPerByte*DescriptorLength))
	})
}
