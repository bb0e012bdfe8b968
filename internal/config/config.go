package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env            string
	HTTPAddr       string
	DatabaseURL    string
	RatePerMinute  int
	RateBurst      int
	FetchMaxBytes  int
	WorkerBatch    int
	WorkerInterval time.Duration
	UserAgent      string
}

func Load() Config {
	return Config{
		Env:            getEnv("APP_ENV", "development"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:    mustEnv("DATABASE_URL"),
		RatePerMinute:  getEnvInt("RATE_PER_MINUTE", 120),
		RateBurst:      getEnvInt("RATE_BURST", 60),
		FetchMaxBytes:  getEnvInt("FETCH_MAX_BYTES", 2_000_000),
		WorkerBatch:    getEnvInt("WORKER_BATCH", 50),
		WorkerInterval: getEnvDuration("WORKER_INTERVAL", time.Minute),
		UserAgent:      getEnv("USER_AGENT", "linksift/1.0"),
	}
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic("missing env: " + key)
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
