package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName   string
	HTTPPort      string
	PostgresDSN   string
	MongoURI      string
	MongoDatabase string
	KafkaBrokers  []string
	StorageDriver string

	FactoryAddress      string
	BootstrapSuperAdmin string

	ElectionAuthorityCanValidate bool
	EnableMirrorConsumer         bool
	OutboxPollInterval           time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads envFile when it exists, then the process environment. Values
// already present in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile = strings.TrimSpace(envFile); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("SERVICE_NAME", "ledgervote")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("MONGO_DATABASE", "ledgervote")
	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("FACTORY_ADDRESS", "0x5FbDB2315678afecb367f032d93F642f64180aa3")
	v.SetDefault("ELECTION_AUTHORITY_CAN_VALIDATE", true)
	v.SetDefault("ENABLE_MIRROR_CONSUMER", true)
	v.SetDefault("OUTBOX_POLL_INTERVAL", "2s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	cfg := Config{
		ServiceName:   v.GetString("SERVICE_NAME"),
		HTTPPort:      v.GetString("HTTP_PORT"),
		PostgresDSN:   v.GetString("POSTGRES_DSN"),
		MongoURI:      v.GetString("MONGO_URI"),
		MongoDatabase: v.GetString("MONGO_DATABASE"),
		KafkaBrokers:  splitList(v.GetString("KAFKA_BROKERS")),
		StorageDriver: strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),

		FactoryAddress:      strings.TrimSpace(v.GetString("FACTORY_ADDRESS")),
		BootstrapSuperAdmin: strings.TrimSpace(v.GetString("BOOTSTRAP_SUPER_ADMIN")),

		ElectionAuthorityCanValidate: v.GetBool("ELECTION_AUTHORITY_CAN_VALIDATE"),
		EnableMirrorConsumer:         v.GetBool("ENABLE_MIRROR_CONSUMER"),
		OutboxPollInterval:           v.GetDuration("OUTBOX_POLL_INTERVAL"),

		LogLevel:  strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		LogFormat: strings.ToLower(strings.TrimSpace(v.GetString("LOG_FORMAT"))),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return errors.New("POSTGRES_DSN is required when STORAGE_DRIVER=postgres")
		}
		// Projectors run in the worker process, so the api can only serve
		// the mirror from a shared store.
		if c.EnableMirrorConsumer && strings.TrimSpace(c.MongoURI) == "" {
			return errors.New("MONGO_URI is required when STORAGE_DRIVER=postgres and the mirror consumer is enabled")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.OutboxPollInterval <= 0 {
		return fmt.Errorf("OUTBOX_POLL_INTERVAL must be positive, got %s", c.OutboxPollInterval)
	}
	if c.FactoryAddress == "" {
		return errors.New("FACTORY_ADDRESS is required")
	}
	return nil
}

func splitList(raw string) []string {
	var items []string
	for _, value := range strings.Split(raw, ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
