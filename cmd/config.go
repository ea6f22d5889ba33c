package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort   string `env:"HTTP_PORT" envDefault:"8080"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"storymap"`
	DBSslMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	FeatureSourceURL        string        `env:"FEATURE_SOURCE_URL" envDefault:"http://localhost:8090"`
	FeatureSourceAPIKey     string        `env:"FEATURE_SOURCE_API_KEY"`
	FeatureSourceTimeout    time.Duration `env:"FEATURE_SOURCE_TIMEOUT" envDefault:"20s"`
	FeatureSourceMaxRetries uint64        `env:"FEATURE_SOURCE_MAX_RETRIES" envDefault:"2"`

	TemplateCatalogPath string `env:"TEMPLATE_CATALOG_PATH"`
	MaterialCatalogPath string `env:"MATERIAL_CATALOG_PATH"`

	ExportOutputDir        string        `env:"EXPORT_OUTPUT_DIR" envDefault:"exports"`
	ExportJobSchedule      string        `env:"EXPORT_JOB_SCHEDULE" envDefault:"*/30 * * * * *"`
	ExportJobBatch         int           `env:"EXPORT_JOB_BATCH" envDefault:"5"`
	ExportJobRetryInterval time.Duration `env:"EXPORT_JOB_RETRY_INTERVAL" envDefault:"1m"`

	StrictTransitions bool `env:"ORDER_STRICT_TRANSITIONS" envDefault:"false"`
}

// LoadConfig reads an optional .env file into the environment and parses the
// environment into a Config. Variables already set win over the file.
func LoadConfig(dotenvFiles ...string) (Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, file := range dotenvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var config Config
	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return config, nil
}

// DSN returns the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}
