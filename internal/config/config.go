package config

import (
	"flag"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Addr             string   `env:"RUN_ADDRESS" env-default:"localhost:8080"`
	DatabaseURL      string   `env:"DATABASE_URI"`
	MongoURI         string   `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	MongoDatabase    string   `env:"MONGO_DATABASE" env-default:"backoffice"`
	MigrationsPath   string   `env:"MIGRATIONS_PATH" env-default:"file://migrations"`
	PrivateKey       string   `env:"PRIVATE_KEY" env-default:"privatekey"`
	AuthDisabledURLs []string `env:"AUTH_DISABLED_URLS" env-default:"/login,/register" env-separator:","`
}

func Load() (*Config, error) {
	cfg := &Config{}

	flag.StringVar(&cfg.Addr, "a", "localhost:8080", "HTTP server address")
	flag.StringVar(&cfg.DatabaseURL, "d", "", "PostgreSQL database URL")
	flag.StringVar(&cfg.MongoURI, "m", "mongodb://localhost:27017", "MongoDB connection URI")

	flag.Parse()

	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, fmt.Errorf("couldn't read environment variables: %w", err)
	}

	return cfg, nil
}
