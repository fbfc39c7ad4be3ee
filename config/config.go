package config

import (
	"github.com/joho/godotenv"
	"log"
	"os"
)

type Config struct {
	ListenAddr     string
	DSN            string
	CacheDirectory string
	LogsDirectory  string
	JWTSecret      string
	ResyncSchedule string
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return &Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		DSN:            os.Getenv("DATABASE_DSN"),
		CacheDirectory: getEnv("CACHE_DIRECTORY", "data"),
		LogsDirectory:  getEnv("LOGS_DIRECTORY", "logs"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		ResyncSchedule: getEnv("RESYNC_SCHEDULE", "*/5 * * * *"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
