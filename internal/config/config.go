package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Shop     ShopConfig     `mapstructure:"shop"`
	Payments PaymentsConfig `mapstructure:"payments"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// ShopConfig holds storefront backend API configuration
type ShopConfig struct {
	BaseURL              string  `mapstructure:"base_url"`
	Timeout              int     `mapstructure:"timeout"`
	MaxRetries           int     `mapstructure:"max_retries"`
	MaxWorkers           int     `mapstructure:"max_workers"`
	MaxRequestsPerSecond int     `mapstructure:"max_requests_per_second"`
	Currency             string  `mapstructure:"currency"`
	DeliveryFee          float64 `mapstructure:"delivery_fee"`
}

// PaymentsConfig holds the public key handed to the embedded payment
// widget. The hosted payment page needs no client-side key.
type PaymentsConfig struct {
	RazorpayKeyID string `mapstructure:"razorpay_key_id"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Password      string `mapstructure:"password"`
	Database      int    `mapstructure:"database"`
	ConsumerGroup string `mapstructure:"consumer_group"`
	MinIdleTime   int    `mapstructure:"min_idle_time"`
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("shop.base_url", "http://localhost:4000")
	viper.SetDefault("shop.timeout", 30)
	viper.SetDefault("shop.max_retries", 3)
	viper.SetDefault("shop.max_workers", 4)
	viper.SetDefault("shop.max_requests_per_second", 10)
	viper.SetDefault("shop.currency", "$")
	viper.SetDefault("shop.delivery_fee", 10)

	viper.SetDefault("payments.razorpay_key_id", "")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "storefront")
	viper.SetDefault("database.user", "storefront_user")
	viper.SetDefault("database.password", "storefront_pass")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.database", 0)
	viper.SetDefault("redis.consumer_group", "storefront_consumer")
	viper.SetDefault("redis.min_idle_time", 120)
}
