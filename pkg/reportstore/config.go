package reportstore

import (
	"context"
	"fmt"
)

// Backend names accepted by Config.Backend.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

type Config struct {
	Backend string `env:"ANZARD_REPORT_BACKEND" envDefault:"local"` // Backend is local or s3.
	Dir     string `env:"ANZARD_REPORT_DIR" envDefault:"reports"`   // Dir is the local base directory.
	BaseURL string `env:"ANZARD_REPORT_BASE_URL"`                   // BaseURL prefixes report URLs.

	S3Bucket         string `env:"ANZARD_REPORT_S3_BUCKET"`
	S3Region         string `env:"ANZARD_REPORT_S3_REGION" envDefault:"ap-southeast-2"`
	S3Prefix         string `env:"ANZARD_REPORT_S3_PREFIX"`
	S3Endpoint       string `env:"ANZARD_REPORT_S3_ENDPOINT"`
	S3AccessKeyID    string `env:"ANZARD_REPORT_S3_ACCESS_KEY_ID"`
	S3SecretKey      string `env:"ANZARD_REPORT_S3_SECRET_KEY"`
	S3ForcePathStyle bool   `env:"ANZARD_REPORT_S3_FORCE_PATH_STYLE"`
}

// NewStorage builds the backend named by cfg.Backend.
func NewStorage(ctx context.Context, cfg Config, opts ...S3Option) (Storage, error) {
	switch cfg.Backend {
	case "", BackendLocal:
		return NewLocalStorage(cfg.Dir, cfg.BaseURL)
	case BackendS3:
		return NewS3Storage(ctx, S3Config{
			Bucket:         cfg.S3Bucket,
			Region:         cfg.S3Region,
			Prefix:         cfg.S3Prefix,
			AccessKeyID:    cfg.S3AccessKeyID,
			SecretKey:      cfg.S3SecretKey,
			Endpoint:       cfg.S3Endpoint,
			BaseURL:        cfg.BaseURL,
			ForcePathStyle: cfg.S3ForcePathStyle,
		}, opts...)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, cfg.Backend)
	}
}
