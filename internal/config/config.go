// Package config provides YAML-based configuration with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/labstack/gommon/bytes"
	"gopkg.in/yaml.v3"
)

// AppConfig represents the root configuration structure
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port            int           `yaml:"port" env:"PORT" validate:"min=1,max=65535"`
	BindAddress     string        `yaml:"bindAddress" env:"BIND_ADDRESS"`
	ReadTimeout     time.Duration `yaml:"readTimeout" validate:"gte=0"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" validate:"gte=0"`
	IdleTimeout     time.Duration `yaml:"idleTimeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" validate:"gt=0"`
	// BodyLimit caps request bodies, e.g. "32M". Empty means no limit.
	BodyLimit string `yaml:"bodyLimit" env:"BODY_LIMIT" validate:"omitempty,bytesize"`
}

// StorageConfig contains upload storage settings
type StorageConfig struct {
	UploadsDirectory string `yaml:"uploadsDirectory" env:"UPLOAD_DIR" validate:"required"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level                string `yaml:"level" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	Format               string `yaml:"format" env:"LOG_FORMAT" validate:"oneof=console json"`
	EnableRequestLogging bool   `yaml:"enableRequestLogging" env:"REQUEST_LOGGING"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:            5000,
			BindAddress:     "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			BodyLimit:       "32M",
		},
		Storage: StorageConfig{
			UploadsDirectory: "uploads",
		},
		Logging: LoggingConfig{
			Level:                "info",
			Format:               "console",
			EnableRequestLogging: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file, writing the defaults there
// first if the file does not exist. Environment variables override file values.
func LoadConfig(configPath string) (*AppConfig, error) {
	config := DefaultConfig()

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to apply environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.resolvePaths(filepath.Dir(configPath))

	return config, nil
}

// Save writes the configuration to a YAML file
func (c *AppConfig) Save(configPath string) error {
	output, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# Course import validator configuration\n# This file is auto-generated on first run\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("bytesize", func(fl validator.FieldLevel) bool {
		_, err := bytes.Parse(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks value ranges and formats.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if !filepath.IsAbs(c.Storage.UploadsDirectory) {
		c.Storage.UploadsDirectory = filepath.Join(configDir, c.Storage.UploadsDirectory)
	}
}

// GetUploadDir returns the uploads directory path
func (c *AppConfig) GetUploadDir() string {
	return c.Storage.UploadsDirectory
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// EnsureDirectories creates the upload directory if it is absent.
func (c *AppConfig) EnsureDirectories() error {
	if err := os.MkdirAll(c.Storage.UploadsDirectory, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.Storage.UploadsDirectory, err)
	}
	return nil
}
