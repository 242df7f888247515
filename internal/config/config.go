package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort        string
	AdminPassword     string // empty means "generate one at startup"
	RedisURL          string // empty means "no redis, use in-process markers"
	CORSAllowedOrigin string
	YouTubeAPIKey     string
	AutoAdvance       bool
}

func Load() *Config {
	// Load .env if present; real env always wins.
	_ = godotenv.Load()

	return &Config{
		ServerPort:        getEnv("PORT", "3000"),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		RedisURL:          getEnv("REDIS_URL", ""),
		CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		YouTubeAPIKey:     getEnv("YOUTUBE_API_KEY", ""),
		AutoAdvance:       getEnv("AUTO_ADVANCE", "false") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
