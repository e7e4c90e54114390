// Файл: pkg/config/config.go
package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Port string
}

type RedisConfig struct {
	Address  string
	Password string
}

// RemoteBackendConfig описывает необязательный удалённый бекенд синхронизации.
// Provider: "http", "mock" или "none" (локальный режим без синхронизации).
type RemoteBackendConfig struct {
	Provider     string
	BaseURL      string
	PollInterval time.Duration
}

// AssetProxyConfig — настройки офлайн-прокси статических ресурсов.
type AssetProxyConfig struct {
	OriginURL    string
	CacheVersion string
}

type Config struct {
	Server        ServerConfig
	Redis         RedisConfig
	RemoteBackend RemoteBackendConfig
	AssetProxy    AssetProxyConfig
}

func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Предупреждение: .env файл не найден или не удалось его загрузить.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		RemoteBackend: RemoteBackendConfig{
			Provider:     strings.ToLower(getEnv("REMOTE_PROVIDER", "none")),
			BaseURL:      getEnv("REMOTE_BASE_URL", ""),
			PollInterval: getDuration("REMOTE_POLL_INTERVAL", time.Second*30),
		},
		AssetProxy: AssetProxyConfig{
			OriginURL:    getEnv("ASSET_ORIGIN_URL", "http://localhost:5173"),
			CacheVersion: getEnv("ASSET_CACHE_VERSION", "v4"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Предупреждение: не удалось разобрать %s, используется значение по умолчанию %s", key, fallback)
	}
	return fallback
}
