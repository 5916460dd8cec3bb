package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		HTTP      HTTP
		Log       Log
		Storage   Storage
		S3        S3
		Upload    Upload
		Thumbnail Thumbnail
		Retention Retention
	}

	HTTP struct {
		Port           string `env:"HTTP_PORT,required"`
		UsePreforkMode bool   `env:"HTTP_USE_PREFORK_MODE" envDefault:"false"`
	}

	Log struct {
		Level string `env:"LOG_LEVEL,required"`
	}

	// Storage selects the blob backend and locates the metadata table.
	Storage struct {
		Backend      string `env:"STORAGE_BACKEND" envDefault:"fs"` // fs, s3
		FSRoot       string `env:"STORAGE_FS_ROOT" envDefault:"./data"`
		MetadataFile string `env:"STORAGE_METADATA_FILE" envDefault:"./data/image_metadata.json"`
	}

	S3 struct {
		Endpoint       string        `env:"S3_ENDPOINT"`
		AccessKey      string        `env:"S3_ACCESS_KEY"`
		SecretKey      string        `env:"S3_SECRET_KEY"`
		Bucket         string        `env:"S3_BUCKET"`
		CfgLoadTimeout time.Duration `env:"S3_LOAD_CFG_TIMEOUT" envDefault:"10s"`
	}

	Upload struct {
		MaxSizeBytes int64 `env:"UPLOAD_MAX_SIZE_BYTES" envDefault:"10485760"` // 10 MiB
	}

	Thumbnail struct {
		MaxWidth  int `env:"THUMBNAIL_MAX_WIDTH" envDefault:"750"`
		MaxHeight int `env:"THUMBNAIL_MAX_HEIGHT" envDefault:"750"`
	}

	Retention struct {
		Window time.Duration `env:"RETENTION_WINDOW" envDefault:"72h"`
	}
)

func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}
