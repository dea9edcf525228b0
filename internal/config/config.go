package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL  string
	RedisURL     string
	OpenAIKey    string
	OpenAIModel  string
	HTTPPort     string
	MetricsPort  string
	WorkerCount  int
	StockAPIURL  string
	StockAPIKey  string
	StockTimeout time.Duration
	PixKey       string
	StoreName    string
	CatalogURLs  []string
}

func Load() *Config {
	// Carrega .env da raiz do projeto
	_ = godotenv.Load("../../.env")
	// Se não encontrar, tenta no diretório atual
	_ = godotenv.Load()
	return &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     getEnv("REDIS_URL", "localhost:6379"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		MetricsPort:  getEnv("METRICS_PORT", "9090"),
		WorkerCount:  getEnvInt("WORKER_COUNT", 5),
		StockAPIURL:  os.Getenv("STOCK_API_URL"),
		StockAPIKey:  os.Getenv("STOCK_API_KEY"),
		StockTimeout: getEnvDuration("STOCK_TIMEOUT", 5*time.Second),
		PixKey:       os.Getenv("PIX_KEY"),
		StoreName:    getEnv("STORE_NAME", "Supermercado"),
		CatalogURLs:  splitList(os.Getenv("CATALOG_URLS")),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil || v <= 0 {
		return d
	}
	return v
}

func getEnvDuration(k string, d time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(k))
	if err != nil || v <= 0 {
		return d
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
