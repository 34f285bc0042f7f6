// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/GlazyrinAV/corporate-approval/internal/infrastructure/lock"
	"github.com/GlazyrinAV/corporate-approval/internal/logging"
	"github.com/GlazyrinAV/corporate-approval/internal/service"
)

// envPrefix prefixes every environment variable, e.g. APPROVAL_PORT. The
// unprefixed name from the envconfig tag is accepted as well.
const envPrefix = "approval"

// Store backends.
const (
	storeBackendNATS     = "nats"
	storeBackendSQLite   = "sqlite"
	storeBackendPostgres = "postgres"
)

// flags are the command line flags for the approval service.
type flags struct {
	Debug      bool
	Port       string
	Bind       string
	ConfigFile string
}

// environment is the runtime configuration of the approval service. Values
// come from the defaults, then the optional YAML file, then the environment.
type environment struct {
	Port         string `yaml:"port"         envconfig:"PORT"`
	StoreBackend string `yaml:"storeBackend" envconfig:"STORE_BACKEND"`

	NatsURL           string        `yaml:"natsURL"           envconfig:"NATS_URL"`
	NatsTimeout       time.Duration `yaml:"natsTimeout"       envconfig:"NATS_TIMEOUT"`
	NatsMaxReconnect  int           `yaml:"natsMaxReconnect"  envconfig:"NATS_MAX_RECONNECT"`
	NatsReconnectWait time.Duration `yaml:"natsReconnectWait" envconfig:"NATS_RECONNECT_WAIT"`
	NatsCreateBuckets bool          `yaml:"natsCreateBuckets" envconfig:"NATS_CREATE_BUCKETS"`

	SQLDSN string `yaml:"sqlDSN" envconfig:"SQL_DSN"`

	RedisURL      string        `yaml:"redisURL"      envconfig:"REDIS_URL"`
	RedisPoolSize int           `yaml:"redisPoolSize" envconfig:"REDIS_POOL_SIZE"`
	LockTTL       time.Duration `yaml:"lockTTL"       envconfig:"LOCK_TTL"`

	MetricsEnabled bool `yaml:"metricsEnabled" envconfig:"METRICS_ENABLED"`

	UpdateRetries int `yaml:"updateRetries" envconfig:"UPDATE_RETRIES"`
	RosterWorkers int `yaml:"rosterWorkers" envconfig:"ROSTER_WORKERS"`

	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// defaultEnvironment returns the configuration used when nothing overrides it.
func defaultEnvironment() environment {
	serviceConfig := service.DefaultServiceConfig()
	return environment{
		Port:              "8080",
		StoreBackend:      storeBackendNATS,
		NatsURL:           "nats://localhost:4222",
		NatsTimeout:       10 * time.Second,
		NatsMaxReconnect:  3,
		NatsReconnectWait: 2 * time.Second,
		LockTTL:           lock.DefaultTTL,
		MetricsEnabled:    true,
		UpdateRetries:     serviceConfig.UpdateRetries,
		RosterWorkers:     serviceConfig.RosterWorkers,
		ShutdownTimeout:   25 * time.Second,
	}
}

// serviceConfig returns the service layer settings.
func (e environment) serviceConfig() service.ServiceConfig {
	return service.ServiceConfig{
		UpdateRetries: e.UpdateRetries,
		RosterWorkers: e.RosterWorkers,
	}
}

// validate checks the settings that the infrastructure setup relies on.
func (e environment) validate() error {
	switch e.StoreBackend {
	case storeBackendNATS:
		if e.NatsURL == "" {
			return fmt.Errorf("the %s store backend requires NATS_URL", e.StoreBackend)
		}
	case storeBackendSQLite:
	case storeBackendPostgres:
		if e.SQLDSN == "" {
			return fmt.Errorf("the %s store backend requires SQL_DSN", e.StoreBackend)
		}
	default:
		return fmt.Errorf("unknown store backend %q", e.StoreBackend)
	}
	if e.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if e.UpdateRetries < 1 {
		return fmt.Errorf("update retries must be positive, got %d", e.UpdateRetries)
	}
	return nil
}

// loadEnvironment builds the configuration from the defaults, the YAML file
// at configFile (skipped when empty) and the environment.
func loadEnvironment(configFile string) (environment, error) {
	env := defaultEnvironment()

	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return env, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, &env); err != nil {
			return env, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := envconfig.Process(envPrefix, &env); err != nil {
		return env, fmt.Errorf("error processing environment: %w", err)
	}

	if err := env.validate(); err != nil {
		return env, err
	}
	return env, nil
}

// parseFlags parses command line flags for the approval service
func parseFlags() flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", "", "listen port, overrides PORT")
	var bind = flag.String("bind", "*", "interface to bind on")
	var configFile = flag.String("config", "", "path to a YAML config file")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug:      *debug,
		Port:       *port,
		Bind:       *bind,
		ConfigFile: *configFile,
	}
}
