package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// KV drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Transport modes.
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	DB        DBConfig        `yaml:"db"`
	KV        KVConfig        `yaml:"kv"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Identity  IdentityConfig  `yaml:"identity"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// BasePath mounts the API under a prefix such as /functions/v1.
	BasePath string `yaml:"base_path"`
}

// TransportConfig selects how the server is reached. Stdio serves only the
// MCP tools, acting as the demo account.
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type KVConfig struct {
	Driver string `yaml:"driver"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	Namespace string `yaml:"namespace"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	AnonKey   string        `yaml:"anon_key"`
}

type IdentityConfig struct {
	SeedDemoUser bool `yaml:"seed_demo_user"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from .env, an optional YAML file and environment variables,
// in that order of increasing precedence.
func Load() (Config, error) {
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: TransportHTTP,
		},
		DB: DBConfig{
			Path: "pmdash.db",
		},
		KV: KVConfig{
			Driver: DriverSQLite,
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			Namespace: "pmdash:",
		},
		Auth: AuthConfig{
			TokenTTL: time.Hour,
		},
		Identity: IdentityConfig{
			SeedDemoUser: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("PMDASH_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("PMDASH_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("PMDASH_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PMDASH_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if basePath := os.Getenv("PMDASH_BASE_PATH"); basePath != "" {
		cfg.Server.BasePath = basePath
	}
	if mode := os.Getenv("PMDASH_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = strings.ToLower(mode)
	}
	if dbPath := os.Getenv("PMDASH_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if driver := os.Getenv("PMDASH_KV_DRIVER"); driver != "" {
		cfg.KV.Driver = strings.ToLower(driver)
	}
	if addr := os.Getenv("PMDASH_REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if password := os.Getenv("PMDASH_REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if secret := os.Getenv("PMDASH_JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if ttlStr := os.Getenv("PMDASH_TOKEN_TTL"); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PMDASH_TOKEN_TTL: %w", err)
		}
		cfg.Auth.TokenTTL = ttl
	}
	if anonKey := os.Getenv("PMDASH_ANON_KEY"); anonKey != "" {
		cfg.Auth.AnonKey = anonKey
	}
	if seedStr := os.Getenv("PMDASH_SEED_DEMO_USER"); seedStr != "" {
		seed, err := strconv.ParseBool(seedStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PMDASH_SEED_DEMO_USER: %w", err)
		}
		cfg.Identity.SeedDemoUser = seed
	}
	if level := os.Getenv("PMDASH_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.KV.Driver {
	case DriverSQLite, DriverRedis:
	default:
		return fmt.Errorf("unknown kv driver %q", c.KV.Driver)
	}
	switch c.Transport.Mode {
	case TransportHTTP, TransportStdio:
	default:
		return fmt.Errorf("unknown transport mode %q", c.Transport.Mode)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("PMDASH_JWT_SECRET is required")
	}
	return nil
}

// ClientConfig configures the dashboard CLI.
type ClientConfig struct {
	// BackendURL selects remote mode; empty means demo mode.
	BackendURL string
	AnonKey    string
	// StatePath is the local state file holding demo data and the remote session.
	StatePath string
	Timeout   time.Duration
}

// DemoMode reports whether no backend is configured.
func (c ClientConfig) DemoMode() bool {
	return c.BackendURL == ""
}

// LoadClient reads the CLI configuration from .env and the environment.
func LoadClient() (ClientConfig, error) {
	if err := loadDotEnv(); err != nil {
		return ClientConfig{}, err
	}

	cfg := ClientConfig{
		BackendURL: strings.TrimRight(os.Getenv("PMDASH_BACKEND_URL"), "/"),
		AnonKey:    os.Getenv("PMDASH_ANON_KEY"),
		StatePath:  os.Getenv("PMDASH_STATE_PATH"),
		Timeout:    10 * time.Second,
	}
	if cfg.StatePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ClientConfig{}, fmt.Errorf("locate home directory: %w", err)
		}
		cfg.StatePath = home + string(os.PathSeparator) + ".pmdash" + string(os.PathSeparator) + "state.db"
	}
	if timeoutStr := os.Getenv("PMDASH_TIMEOUT"); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return ClientConfig{}, fmt.Errorf("invalid PMDASH_TIMEOUT: %w", err)
		}
		cfg.Timeout = timeout
	}
	return cfg, nil
}

// loadDotEnv loads .env from the working directory when present.
// Variables already set in the environment win.
func loadDotEnv() error {
	path := os.Getenv("PMDASH_ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
