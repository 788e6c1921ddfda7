package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const DefaultAPIBaseURL = "http://localhost:8005"

const analyzePath = "/api/analyze"

type Config struct {
	Env        string     `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer HTTPServer `yaml:"http_server"`
	API        API        `yaml:"api"`
	Session    Session    `yaml:"session"`
	StorageDB  StorageDB  `yaml:"storage_db"`
	CORS       CORS       `yaml:"cors"`
}

type HTTPServer struct {
	Address      string        `yaml:"address" env:"HTTP_SERVER_ADDRESS" env-default:"0.0.0.0:3000"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env-default:"60s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"60s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env-default:"120s"`
}

// API describes the analysis backend.
type API struct {
	BaseURL string        `yaml:"base_url" env:"API_URL" env-default:"http://localhost:8005"`
	Timeout time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"30s"`
}

// AnalyzeEndpoint returns the URL of the analyze operation.
func (a API) AnalyzeEndpoint() string {
	base := strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	if base == "" {
		base = DefaultAPIBaseURL
	}
	return base + analyzePath
}

type Session struct {
	CookieName string        `yaml:"cookie_name" env:"SESSION_COOKIE" env-default:"simchecker_session"`
	TTL        time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"30m"`
	Store      string        `yaml:"store" env:"SESSION_STORE" env-default:"memory"`
	RedisAddr  string        `yaml:"redis_addr" env:"SESSION_REDIS_ADDR" env-default:"localhost:6379"`
}

type StorageDB struct {
	DSN string `yaml:"dsn" env:"STORAGE_DB_DSN"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`
}

// Load reads an optional .env file, then the YAML file at path (if any),
// then the environment.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	switch cfg.Session.Store {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
	return &cfg, nil
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	return cfg
}
