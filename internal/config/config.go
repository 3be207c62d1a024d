package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	ServiceName string
	Version     string
	Environment string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	APIKey string // API key for authentication

	// TrustedProxies lists proxy IPs whose X-Forwarded-For headers are
	// believed when resolving client addresses for security logging.
	TrustedProxies []string

	// Game tunables. Defaults match the live game; none of these are
	// invariants of the core rules.
	RestockInterval      time.Duration
	GrowthTickInterval   time.Duration
	WeatherDuration      time.Duration
	GridSize             int
	GoldenMutationChance float64
	RainbowChance        float64
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", "INFO"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		ServiceName: getEnv("SERVICE_NAME", "growgarden"),
		Version:     getEnv("VERSION", "dev"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", "postgres"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBName:      getEnv("DB_NAME", "growgarden"),
		APIKey:      getEnv("API_KEY", ""),
	}

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	restockSeconds, err := getEnvInt("RESTOCK_INTERVAL_SECONDS", 300)
	if err != nil {
		return nil, err
	}
	cfg.RestockInterval = time.Duration(restockSeconds) * time.Second

	growthSeconds, err := getEnvInt("GROWTH_TICK_SECONDS", 15)
	if err != nil {
		return nil, err
	}
	cfg.GrowthTickInterval = time.Duration(growthSeconds) * time.Second

	weatherSeconds, err := getEnvInt("WEATHER_DURATION_SECONDS", 300)
	if err != nil {
		return nil, err
	}
	cfg.WeatherDuration = time.Duration(weatherSeconds) * time.Second

	if cfg.GridSize, err = getEnvInt("GRID_SIZE", 10); err != nil {
		return nil, err
	}
	if cfg.GoldenMutationChance, err = getEnvFloat("GOLDEN_MUTATION_CHANCE", 0.01); err != nil {
		return nil, err
	}
	if cfg.RainbowChance, err = getEnvFloat("RAINBOW_MUTATION_CHANCE", 0.001); err != nil {
		return nil, err
	}

	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		for _, p := range strings.Split(proxies, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.TrustedProxies = append(cfg.TrustedProxies, p)
			}
		}
	}

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return f, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
