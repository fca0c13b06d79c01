package config_test

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intersect/anzard/pkg/config"
)

type defaultsConfig struct {
	Format    string `env:"CONFIG_TEST_FORMAT" envDefault:"text"`
	CacheSize int    `env:"CONFIG_TEST_CACHE_SIZE" envDefault:"16"`
	Strict    bool   `env:"CONFIG_TEST_STRICT" envDefault:"true"`
}

type overrideConfig struct {
	Format    string `env:"CONFIG_TEST_OVERRIDE_FORMAT" envDefault:"text"`
	CacheSize int    `env:"CONFIG_TEST_OVERRIDE_CACHE_SIZE" envDefault:"16"`
}

type requiredConfig struct {
	URL string `env:"CONFIG_TEST_REQUIRED_URL,required"`
}

type fileConfig struct {
	Value      string `env:"CONFIG_TEST_FILE_VALUE"`
	Precedence string `env:"CONFIG_TEST_PRECEDENCE"`
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		config.ResetCache()
		var cfg defaultsConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, defaultsConfig{Format: "text", CacheSize: 16, Strict: true}, cfg)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		config.ResetCache()
		t.Setenv("CONFIG_TEST_OVERRIDE_FORMAT", "json")
		t.Setenv("CONFIG_TEST_OVERRIDE_CACHE_SIZE", "64")
		var cfg overrideConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "json", cfg.Format)
		assert.Equal(t, 64, cfg.CacheSize)
	})

	t.Run("cached per type", func(t *testing.T) {
		config.ResetCache()
		t.Setenv("CONFIG_TEST_OVERRIDE_FORMAT", "json")
		var first overrideConfig
		require.NoError(t, config.Load(&first))

		t.Setenv("CONFIG_TEST_OVERRIDE_FORMAT", "text")
		var second overrideConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, "json", second.Format)

		config.ResetCache()
		var third overrideConfig
		require.NoError(t, config.Load(&third))
		assert.Equal(t, "text", third.Format)
	})

	t.Run("required variable", func(t *testing.T) {
		config.ResetCache()
		os.Unsetenv("CONFIG_TEST_REQUIRED_URL")
		var cfg requiredConfig
		assert.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)
		assert.Panics(t, func() { config.MustLoad(&cfg) })
	})

	t.Run("nil pointer", func(t *testing.T) {
		var cfg *defaultsConfig
		assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})

	t.Run("concurrent loads agree", func(t *testing.T) {
		config.ResetCache()
		var wg sync.WaitGroup
		results := make([]defaultsConfig, 8)
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, config.Load(&results[i]))
			}()
		}
		wg.Wait()
		for _, r := range results {
			assert.Equal(t, results[0], r)
		}
	})
}

func TestLoadEnv(t *testing.T) {
	os.Unsetenv("CONFIG_TEST_FILE_VALUE")
	t.Setenv("CONFIG_TEST_PRECEDENCE", "process")
	t.Cleanup(func() { os.Unsetenv("CONFIG_TEST_FILE_VALUE") })
	config.ResetCache()

	require.NoError(t, config.LoadEnv("testdata/.env.test"))

	var cfg fileConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "from_file", cfg.Value)
	assert.Equal(t, "process", cfg.Precedence)

	err := config.LoadEnv("testdata/missing.env")
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
}
