package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/corray333/backend-labs/storefront/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// MustInit loads .env, config.yaml and environment overrides, then installs
// the default logger.
func MustInit() {
	if err := godotenv.Load("./.env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic("error while loading .env file: " + err.Error())
	}

	setDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/storefront")
	viper.AddConfigPath(".")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic("error while reading config file: " + err.Error())
		}
	}

	SetupLogger()
}

func setDefaults() {
	viper.SetDefault("server.http.port", "8080")
	viper.SetDefault("server.http.read_header_timeout", "5s")
	viper.SetDefault("server.http.shutdown_timeout_seconds", 10)
	viper.SetDefault("server.http.cors.allowed_origins", []string{"*"})
	viper.SetDefault("server.http.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	viper.SetDefault("server.http.cors.allowed_headers", []string{"Authorization", "Content-Type"})
	viper.SetDefault("auth.algorithm", "HS256")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("rabbitmq.enabled", false)
	viper.SetDefault("rabbitmq.exchange", "storefront.events")
	viper.SetDefault("rabbitmq.routing_key", "order.completed")
	viper.SetDefault("rabbitmq.outbox.max_retries", 5)
}

// SetupLogger installs the JSON handler at logger.level as the slog default.
func SetupLogger() {
	handler := logger.NewHandler(&slog.HandlerOptions{
		Level: logger.ParseLevel(viper.GetString("logger.level")),
	})
	slog.SetDefault(slog.New(handler))
}
