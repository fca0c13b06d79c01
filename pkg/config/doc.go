// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for struct tag parsing:
//
//	type Config struct {
//		LogFormat     string `env:"ANZARD_LOG_FORMAT" envDefault:"text"`
//		RuleCacheSize int    `env:"ANZARD_RULE_CACHE_SIZE" envDefault:"16"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// Each configuration type is parsed once per process; later Load calls for
// the same type return the cached copy. ResetCache drops the cache, which
// tests use after changing the environment.
//
// LoadEnv reads explicit .env files. Values already present in the
// environment always take precedence.
//
// Errors wrap ErrParsingConfig, ErrLoadingEnvFile or ErrNilPointer and can be
// matched with errors.Is.
package config
