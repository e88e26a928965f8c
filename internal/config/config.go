// Package config loads the gateway configuration from environment
// variables. Double underscores separate nesting levels, so
// AMZN_DATABASE__HOST maps to database.host.
package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/commercekit/amazonpay-gateway/internal/application"
	"github.com/commercekit/amazonpay-gateway/internal/domain"
	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
)

type Config struct {
	Env      string         `koanf:"env" validate:"required"`
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Amazon   AmazonConfig   `koanf:"amazon"`
	Merchant MerchantConfig `koanf:"merchant"`
	Worker   WorkerConfig   `koanf:"worker"`
	Notify   NotifyConfig   `koanf:"notify"`
	Logger   LoggerConfig   `koanf:"logger"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

// AmazonConfig carries provider credentials for both API generations.
// The legacy block is required; the v2 block only when v2 orders exist.
type AmazonConfig struct {
	AccessKey string `koanf:"access_key" validate:"required"`
	SecretKey string `koanf:"secret_key" validate:"required"`

	PublicKeyID    string `koanf:"public_key_id"`
	PrivateKeyPath string `koanf:"private_key_path"`
	StoreID        string `koanf:"store_id"`

	Timeout time.Duration `koanf:"timeout"`
}

type MerchantConfig struct {
	SellerID          string `koanf:"seller_id" validate:"required"`
	StoreName         string `koanf:"store_name" validate:"required"`
	Region            string `koanf:"region" validate:"required,oneof=us gb eu jp"`
	Sandbox           bool   `koanf:"sandbox"`
	CaptureMode       string `koanf:"capture_mode" validate:"required,oneof=immediate authorize-only manual"`
	AuthorizationMode string `koanf:"authorization_mode" validate:"required,oneof=sync async"`
	CartURL           string `koanf:"cart_url" validate:"required,url"`
}

type WorkerConfig struct {
	Interval  time.Duration `koanf:"interval" validate:"required"`
	BatchSize int           `koanf:"batch_size" validate:"required"`
}

// NotifyConfig configures buyer notification publishing. With no brokers
// set, notifications are logged instead of published.
type NotifyConfig struct {
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
}

type LoggerConfig struct {
	Level string `koanf:"level"`
}

// Settings builds the merchant settings passed to every operation.
func (c *MerchantConfig) Settings() application.MerchantSettings {
	return application.MerchantSettings{
		SellerID:          c.SellerID,
		StoreName:         c.StoreName,
		Region:            domain.Region(c.Region),
		Sandbox:           c.Sandbox,
		CaptureMode:       domain.CaptureMode(c.CaptureMode),
		AuthorizationMode: domain.AuthorizationMode(c.AuthorizationMode),
		CartURL:           c.CartURL,
	}
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	err := k.Load(env.Provider("AMZN_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "AMZN_")),
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

	return mainConfig, nil
}
