package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Gemini API key for the conversational agent.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`

	// Calendly credentials. CalendlyURL is the public scheduling link
	// handed to patients when the API is unavailable.
	CalendlyAPIToken string `mapstructure:"CALENDLY_API_TOKEN"`
	CalendlyURL      string `mapstructure:"CALENDLY_URL"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CALENDLY_URL", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Both secrets must be present at startup; discovering a missing one
	// mid-conversation is not acceptable.
	if AppConfig.GeminiAPIKey == "" {
		log.Fatalf("GEMINI_API_KEY is required")
	}
	if AppConfig.CalendlyAPIToken == "" {
		log.Fatalf("CALENDLY_API_TOKEN is required")
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
