// Package config loads process configuration from environment variables and
// an optional YAML file, the way the teacher's configuration loader does,
// narrowed to the sections this system actually needs.
package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config is the full configuration surface for every process in this repo.
type Config struct {
	Server struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	} `mapstructure:"server"`

	Database struct {
		URL      string `mapstructure:"url"`
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"database"`

	Bus struct {
		Enabled       bool   `mapstructure:"enabled"`
		Host          string `mapstructure:"host"`
		Port          int    `mapstructure:"port"`
		MaxBytes      int64  `mapstructure:"max_bytes"`
		MaxAgeSeconds int    `mapstructure:"max_age_seconds"`
	} `mapstructure:"bus"`

	Monitoring struct {
		PrometheusPort int    `mapstructure:"prometheus_port"`
		LogLevel       string `mapstructure:"log_level"`
	} `mapstructure:"monitoring"`

	Admin struct {
		JWTSecret string `mapstructure:"jwt_secret"`
	} `mapstructure:"admin"`
}

var (
	cfg  *Config
	once sync.Once
)

// Load loads configuration once per process: defaults, then an optional
// config.yaml, then environment variables (which always win).
func Load(configPath string) (*Config, error) {
	var err error

	once.Do(func() {
		cfg = &Config{}
		setDefaults()

		v := viper.New()
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if configPath != "" {
			v.AddConfigPath(configPath)
		} else {
			v.AddConfigPath(".")
			v.AddConfigPath("./config")
			v.AddConfigPath("/etc/venue")
		}

		v.AutomaticEnv()
		v.SetEnvPrefix("VENUE")

		if readErr := v.ReadInConfig(); readErr != nil {
			if _, ok := readErr.(viper.ConfigFileNotFoundError); !ok {
				err = fmt.Errorf("read config file: %w", readErr)
				return
			}
		}

		if unmarshalErr := v.Unmarshal(cfg); unmarshalErr != nil {
			err = fmt.Errorf("unmarshal config: %w", unmarshalErr)
			return
		}

		applyEnvironment(cfg)
	})

	return cfg, err
}

func setDefaults() {
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080

	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.User = "postgres"
	cfg.Database.Name = "venue"
	cfg.Database.SSLMode = "disable"

	cfg.Bus.Port = 5552
	cfg.Bus.MaxBytes = 50 * 1024 * 1024 // 50 MiB, per the stream retention cap
	cfg.Bus.MaxAgeSeconds = 30

	cfg.Monitoring.PrometheusPort = 9090
	cfg.Monitoring.LogLevel = "info"
}

// applyEnvironment assembles DatabaseURL and resolves the broker host the
// way §6 Environment specifies: POSTGRES_URL wins outright; otherwise it is
// assembled from POSTGRES_DB/POSTGRES_HOST/POSTGRES_USER/POSTGRES_PASSWORD.
// The broker host is "rabbitmq" in-container, "localhost" otherwise.
func applyEnvironment(c *Config) {
	if url := os.Getenv("POSTGRES_URL"); url != "" {
		c.Database.URL = url
	} else {
		if db := os.Getenv("POSTGRES_DB"); db != "" {
			c.Database.Name = db
		}
		if host := os.Getenv("POSTGRES_HOST"); host != "" {
			c.Database.Host = host
		}
		if user := os.Getenv("POSTGRES_USER"); user != "" {
			c.Database.User = user
		}
		c.Database.Password = os.Getenv("POSTGRES_PASSWORD")
		c.Database.URL = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Name, c.Database.SSLMode)
	}

	if IsRunningInContainer() {
		c.Bus.Host = "rabbitmq"
	} else {
		c.Bus.Host = "localhost"
	}

	for _, arg := range os.Args[1:] {
		if arg == "enable_rabbitmq" {
			c.Bus.Enabled = true
		}
	}

	if secret := os.Getenv("ADMIN_JWT_SECRET"); secret != "" {
		c.Admin.JWTSecret = secret
	}
}

// IsRunningInContainer is the one environment check the bus connection
// policy resolves its host from.
func IsRunningInContainer() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return os.Getenv("KUBERNETES_SERVICE_HOST") != ""
}

// Get returns the already-loaded configuration, loading it with defaults if
// nothing has called Load yet.
func Get() *Config {
	if cfg == nil {
		if _, err := Load(""); err != nil {
			panic(fmt.Sprintf("load config: %v", err))
		}
	}
	return cfg
}

// NewLogger builds the process logger from the monitoring log level.
func NewLogger(c *Config) (*zap.Logger, error) {
	switch c.Monitoring.LogLevel {
	case "debug":
		return zap.NewDevelopment()
	default:
		return zap.NewProduction()
	}
}

func provideConfig() (*Config, error) {
	return Load("")
}

// Module supplies *Config and *zap.Logger to every cmd/* process.
var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(NewLogger),
)
