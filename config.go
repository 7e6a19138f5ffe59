package main

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"

	"github.com/ttpr0/go-raptor/routing"
)

// VALIDATE is shared by ReadConfig and the REST layer -- go-playground
// validator's Validate is safe for concurrent use once built.
var VALIDATE = validator.New()

// ReadConfig loads a .env file, if one is present, into the process
// environment before reading the YAML config -- secrets like the cache
// DSN or notifier URL are expected to arrive via $CACHE_DSN/$NOTIFY_URL
// rather than sit in the checked-in config file.
func ReadConfig(file string) Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file: " + err.Error())
	}

	slog.Info("reading config file")
	data, err := os.ReadFile(file)
	if err != nil {
		slog.Error("failed to read config file: " + err.Error())
		panic(err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		slog.Error("failed to parse config file: " + err.Error())
		panic(err)
	}
	if dsn := os.Getenv("CACHE_DSN"); dsn != "" {
		config.Cache.DSN = dsn
	}
	if url := os.Getenv("NOTIFY_URL"); url != "" {
		config.Notify.URL = url
	}
	if err := VALIDATE.Struct(config); err != nil {
		slog.Error("invalid config: " + err.Error())
		panic(err)
	}
	return config
}

// DefaultConfig mirrors routing.DefaultConfig for the routing section
// and picks conservative server defaults; ReadConfig unmarshals a YAML
// file on top of it so an operator only needs to override what they
// care about.
func DefaultConfig() Config {
	return Config{
		Build: BuildOptions{
			DataPath: "./data/transit_data.json",
		},
		Server: ServerOptions{
			Address:        ":5002",
			MetricsAddress: ":9090",
			LogLevel:       "info",
		},
		Routing: routing.DefaultConfig(),
	}
}

type Config struct {
	Build   BuildOptions   `yaml:"build"`
	Routing routing.Config `yaml:"routing" validate:"required"`
	Server  ServerOptions  `yaml:"server" validate:"required"`
	Cache   CacheOptions   `yaml:"cache"`
	Notify  NotifyOptions  `yaml:"notify"`
}

// BuildOptions controls where the (currently demo-only) TransitData
// view is snapshotted; see Manager's build-if-empty-else-load handling
// in manager.go.
type BuildOptions struct {
	DataPath string `yaml:"data-path"`
}

type ServerOptions struct {
	Address        string `yaml:"address" validate:"required"`
	MetricsAddress string `yaml:"metrics-address"`
	LogLevel       string `yaml:"log-level"`
}

type CacheOptions struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn" validate:"required_if=Enabled true"`
}

type NotifyOptions struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url" validate:"required_if=Enabled true"`
}
