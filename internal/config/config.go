package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "ALUMNI_"
	envConfigPath = "ALUMNI_CONFIG"
)

type Config struct {
	App      AppConfig      `koanf:"app"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	JWT      JWTConfig      `koanf:"jwt"`
	Matching MatchingConfig `koanf:"matching"`
	Events   EventsConfig   `koanf:"events"`
}

type AppConfig struct {
	AppName     string `koanf:"name"`
	Environment string `koanf:"env"`
	HTTPPort    string `koanf:"http_port"`
	LogLevel    string `koanf:"log_level"`
	LogJSON     bool   `koanf:"log_json"`
}

type DatabaseConfig struct {
	DBHost     string `koanf:"host"`
	DBPort     string `koanf:"port"`
	DBName     string `koanf:"name"`
	DBUser     string `koanf:"user"`
	DBPassword string `koanf:"password"`
	DBSSLMode  string `koanf:"ssl_mode"`

	AutoMigrate bool `koanf:"auto_migrate"`

	ConnectTimeout        time.Duration `koanf:"connect_timeout"`
	PoolMaxConns          int32         `koanf:"pool_max_conns"`
	PoolMinConns          int32         `koanf:"pool_min_conns"`
	PoolMaxConnLifetime   time.Duration `koanf:"pool_max_conn_lifetime"`
	PoolMaxConnIdleTime   time.Duration `koanf:"pool_max_conn_idle_time"`
	PoolHealthCheckPeriod time.Duration `koanf:"pool_health_check_period"`
}

type RedisConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Host     string        `koanf:"host"`
	Port     string        `koanf:"port"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	PoolTTL  time.Duration `koanf:"pool_ttl"`
}

// JWTConfig holds the shared secret of the external identity provider.
// An empty secret disables bearer authentication.
type JWTConfig struct {
	Secret string `koanf:"secret"`
}

type MatchingConfig struct {
	DefaultTopN       int `koanf:"default_top_n"`
	MaxTopN           int `koanf:"max_top_n"`
	ParallelThreshold int `koanf:"parallel_threshold"`
}

type EventsConfig struct {
	MaxConflictRetries int `koanf:"max_conflict_retries"`
}

var errMissingRequiredConfig = errors.New("missing required configuration")

// Default returns the compiled-in configuration that file and env values
// are layered over.
func Default() Config {
	return Config{
		App: AppConfig{
			AppName:     "alumni-connect",
			Environment: "development",
			HTTPPort:    "8080",
			LogLevel:    "info",
		},
		Database: DatabaseConfig{
			DBPort:         "5432",
			DBSSLMode:      "disable",
			AutoMigrate:    true,
			ConnectTimeout: 5 * time.Second,
			PoolMaxConns:   10,
		},
		Redis: RedisConfig{
			Host:    "localhost",
			Port:    "6379",
			PoolTTL: 60 * time.Second,
		},
		Matching: MatchingConfig{
			DefaultTopN:       20,
			MaxTopN:           100,
			ParallelThreshold: 512,
		},
		Events: EventsConfig{
			MaxConflictRetries: 5,
		},
	}
}

// Load layers defaults, the YAML file named by ALUMNI_CONFIG (if any) and
// ALUMNI_* environment variables, lowest precedence first.
func Load() (Config, error) {
	k := koanf.New(".")

	if path := strings.TrimSpace(os.Getenv(envConfigPath)); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// ALUMNI_DATABASE__HOST -> database.host
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("load env config: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var missing []string
	req := func(key, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, key)
		}
	}

	req("app.http_port", c.App.HTTPPort)
	req("database.host", c.Database.DBHost)
	req("database.name", c.Database.DBName)
	req("database.user", c.Database.DBUser)

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", errMissingRequiredConfig, strings.Join(missing, ", "))
	}

	if c.Matching.DefaultTopN <= 0 || c.Matching.MaxTopN < c.Matching.DefaultTopN {
		return fmt.Errorf("invalid matching config: default_top_n=%d max_top_n=%d", c.Matching.DefaultTopN, c.Matching.MaxTopN)
	}
	if c.Events.MaxConflictRetries <= 0 {
		return fmt.Errorf("invalid events config: max_conflict_retries=%d", c.Events.MaxConflictRetries)
	}
	return nil
}
