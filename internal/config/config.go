package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	Env         string
	JWTSecret   string
	// TaxRate is the policy-configured tax applied to booking subtotals,
	// e.g. 0.1 for 10%.
	TaxRate float64
}

func Load() (*Config, error) {
	// .env is optional; real environments set variables directly
	if err := godotenv.Load(".env"); err == nil {
		log.Println("loaded configuration from .env")
	}

	viper.AutomaticEnv()
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("TAX_RATE", 0.1)

	// bind explicitly so AutomaticEnv picks the keys up without a config file
	for _, key := range []string{"APP_PORT", "DATABASE_URL", "ENV", "JWT_SECRET", "TAX_RATE"} {
		_ = viper.BindEnv(key)
	}

	cfg := Config{
		AppPort:     viper.GetString("APP_PORT"),
		DatabaseURL: viper.GetString("DATABASE_URL"),
		Env:         viper.GetString("ENV"),
		JWTSecret:   viper.GetString("JWT_SECRET"),
		TaxRate:     viper.GetFloat64("TAX_RATE"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}
	if cfg.TaxRate < 0 || cfg.TaxRate >= 1 {
		return nil, fmt.Errorf("TAX_RATE must be in [0, 1)")
	}

	return &cfg, nil
}
