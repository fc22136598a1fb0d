package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Service API key expected in the X-API-Key header.
	APIKey string `mapstructure:"API_KEY"`

	// Cal.com API configuration.
	CalAPIKey          string `mapstructure:"CAL_API_KEY"`
	CalAPIBaseURL      string `mapstructure:"CAL_API_BASE_URL"`
	DefaultEventTypeID int    `mapstructure:"DEFAULT_EVENT_TYPE_ID"`
	DefaultTimezone    string `mapstructure:"DEFAULT_TIMEZONE"`

	// Gemini configuration.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`

	// Conversation store configuration. "memory" keeps state for the
	// lifetime of the process only; "redis" externalizes it with a TTL.
	ConversationStore      string `mapstructure:"CONVERSATION_STORE"`
	ConversationTTLMinutes int    `mapstructure:"CONVERSATION_TTL_MINUTES"`

	// Redis configuration (used when CONVERSATION_STORE=redis).
	RedisAddr           string `mapstructure:"REDIS_ADDR"`
	RedisPassword       string `mapstructure:"REDIS_PASSWORD"`
	RedisConversationDB int    `mapstructure:"REDIS_CONVERSATION_DB"`
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
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("API_KEY", "test-api-key")
	viper.SetDefault("CAL_API_BASE_URL", "https://api.cal.com/v1")
	viper.SetDefault("DEFAULT_EVENT_TYPE_ID", 1)
	viper.SetDefault("DEFAULT_TIMEZONE", "America/Los_Angeles")
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-pro")
	viper.SetDefault("CONVERSATION_STORE", "memory")
	viper.SetDefault("CONVERSATION_TTL_MINUTES", 30)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CONVERSATION_DB", 0)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
