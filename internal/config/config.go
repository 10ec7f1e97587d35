package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	NATSURL       string `mapstructure:"NATS_URL"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	LogEncoding   string `mapstructure:"LOG_ENCODING"`
}

func Load() (*Config, error) {
	// A local .env is optional; environment variables win either way.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	viper.SetConfigName("config")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DATABASE", "dreamnest")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("NATS_URL", "nats://localhost:4222")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_ENCODING", "json")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
