// config — источник загрузки конфигурации шлюза аутентификации.
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. только ENV (cleanenv).
package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string         `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig     `yaml:"http"`
	Supabase SupabaseConfig `yaml:"supabase"`
	Cookies  CookiesConfig  `yaml:"cookies"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
}

// TimeoutConfig — общий дедлайн запроса и исходящих вызовов бэкенда.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE" env-default:"15s"`
}

// HTTPConfig — публичный REST-сервер шлюза.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// SupabaseConfig — бэкенд идентификации (GoTrue REST API).
// PublicHost — внешний адрес шлюза; подставляется в redirect_to
// писем подтверждения/сброса/приглашения.
type SupabaseConfig struct {
	URL        string `yaml:"url"         env:"SUPABASE_URL"         env-required:"true"`
	ServiceKey string `yaml:"service_key" env:"SUPABASE_SERVICE_KEY" env-required:"true"`
	PublicHost string `yaml:"public_host" env:"HOST" env-default:"http://localhost:8080"`
}

// BaseURL — URL бэкенда без завершающего слэша.
func (s SupabaseConfig) BaseURL() string { return strings.TrimRight(s.URL, "/") }

// CookiesConfig — имена пары HTTP-only кук сессии.
type CookiesConfig struct {
	AccessName  string `yaml:"access_name"  env:"SUPABASE_ACCESS_TOKEN_NAME"  env-default:"access_token"`
	RefreshName string `yaml:"refresh_name" env:"SUPABASE_REFRESH_TOKEN_NAME" env-default:"refresh_token"`
}

// MustLoad — паника при ошибке загрузки.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 1) --config
	if path != "" {
		return tryRead(path)
	}

	// 2) CONFIG_PATH
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		return tryRead(envPath)
	}

	// 3) ./local.yaml
	if _, err := os.Stat("local.yaml"); err == nil {
		if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	// 4) только ENV
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
	}
	return &cfg, nil
}
