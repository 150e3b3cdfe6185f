package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/dropradar/dropstack/internal/logger"
	"github.com/dropradar/dropstack/internal/tracing"
)

type Config struct {
	AppConfig        *AppConfig
	Logger           *logger.Config
	Tracing          *tracing.JaegerConfig
	DatabaseConfig   *DatabaseConfig
	FeedConfig       *FeedConfig
	ValidationConfig *ValidationConfig
	IngestConfig     *IngestConfig
	SweepConfig      *SweepConfig
	R2StorageConfig  *R2StorageConfig
}

func InitConfig() (*Config, error) {
	config := &Config{
		AppConfig:        &AppConfig{},
		Logger:           &logger.Config{},
		Tracing:          &tracing.JaegerConfig{},
		DatabaseConfig:   &DatabaseConfig{},
		FeedConfig:       &FeedConfig{},
		ValidationConfig: &ValidationConfig{},
		IngestConfig:     &IngestConfig{},
		SweepConfig:      &SweepConfig{},
		R2StorageConfig:  &R2StorageConfig{},
	}

	err := godotenv.Load()
	if err != nil {
		log.Print("Unable to load .env file")
	}

	err = env.Parse(config)
	if err != nil {
		log.Fatalf("Error loading dropstack config: %v", err)
	}

	return config, nil
}
