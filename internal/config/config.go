package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
)

const (
	StorageBackendMemory   = "memory"
	StorageBackendPostgres = "postgres"
)

type Config struct {
	Primary    Primary        `koanf:"primary"`
	Server     ServerConfig   `koanf:"server"`
	Database   DatabaseConfig `koanf:"database"`
	BankClient BankConfig     `koanf:"bank_client"`
	Storage    StorageConfig  `koanf:"storage"`
	Logger     LoggerConfig   `koanf:"logger"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

type BankConfig struct {
	BankBaseURL     string        `koanf:"bank_base_url" validate:"required"`
	BankConnTimeout time.Duration `koanf:"bank_conn_timeout" validate:"required"`
}

type StorageConfig struct {
	Backend string `koanf:"backend" validate:"required,oneof=memory postgres"`
}

type LoggerConfig struct {
	Level string `koanf:"level"`
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	err := k.Load(env.Provider("GATEWAY_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "GATEWAY_")),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	// Database settings are only mandatory when the postgres backend is
	// selected; the memory backend needs none of them.
	if mainConfig.Storage.Backend == StorageBackendPostgres {
		if mainConfig.Database.Host == "" || mainConfig.Database.Name == "" || mainConfig.Database.User == "" {
			err := fmt.Errorf("postgres storage backend requires database host, name and user")
			logger.Error("config validation failed", "error", err)
			return nil, err
		}
	}

	return mainConfig, nil
}
