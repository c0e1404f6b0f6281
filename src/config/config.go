package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port            string `mapstructure:"PORT"`
	DatabaseURL     string `mapstructure:"DATABASE_URL"`
	JWTSecret       string `mapstructure:"JWT_SECRET"`
	ShareableIDKey  string `mapstructure:"SHAREABLE_ID_KEY"`
	PlaidClientID   string `mapstructure:"PLAID_CLIENT_ID"`
	PlaidSecret     string `mapstructure:"PLAID_SECRET"`
	PlaidEnv        string `mapstructure:"PLAID_ENV"`
	DwollaKey       string `mapstructure:"DWOLLA_KEY"`
	DwollaSecret    string `mapstructure:"DWOLLA_SECRET"`
	DwollaEnv       string `mapstructure:"DWOLLA_ENV"`
	AllowedOrigins  string `mapstructure:"ALLOWED_ORIGINS"`
	SessionTTLHours int    `mapstructure:"SESSION_TTL_HOURS"`
}

// Load reads configuration from the environment, with an optional .env file
// for local development.
func Load() (Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("PLAID_ENV", "sandbox")
	viper.SetDefault("DWOLLA_ENV", "sandbox")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("SESSION_TTL_HOURS", 168)

	for _, key := range []string{
		"PORT", "DATABASE_URL", "JWT_SECRET", "SHAREABLE_ID_KEY",
		"PLAID_CLIENT_ID", "PLAID_SECRET", "PLAID_ENV",
		"DWOLLA_KEY", "DWOLLA_SECRET", "DWOLLA_ENV",
		"ALLOWED_ORIGINS", "SESSION_TTL_HOURS",
	} {
		_ = viper.BindEnv(key)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	for key, val := range map[string]string{
		"DATABASE_URL":     cfg.DatabaseURL,
		"JWT_SECRET":       cfg.JWTSecret,
		"SHAREABLE_ID_KEY": cfg.ShareableIDKey,
	} {
		if val == "" {
			return Config{}, fmt.Errorf("%s is required", key)
		}
	}

	return cfg, nil
}
