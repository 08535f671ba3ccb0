package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config is the read-once, immutable process configuration. It is loaded at
// startup and injected into the components that need it; nothing re-reads the
// environment afterwards.
type Config struct {
	ServerPort   string `mapstructure:"SERVER_PORT"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`
	ClientOrigin string `mapstructure:"CLIENT_ORIGIN"`
	AWSRegion    string `mapstructure:"AWS_REGION"`
	SenderEmail  string `mapstructure:"SENDER_EMAIL"`
	FrontendURL  string `mapstructure:"FRONTEND_URL"`
	EmailEnabled bool   `mapstructure:"EMAIL_ENABLED"`
}

// LoadConfig reads configuration from a .env file in path plus the process
// environment. A missing .env file is fine; missing required values are not.
func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.SetDefault("SERVER_PORT", "8000")
	viper.SetDefault("CLIENT_ORIGIN", "*")
	viper.SetDefault("FRONTEND_URL", "http://localhost:3000")
	viper.SetDefault("SENDER_EMAIL", "admin@fasttrack.com")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("EMAIL_ENABLED", false)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No .env file found.")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
