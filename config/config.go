package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Oracle    OracleConfig
	Atomizer  AtomizerConfig
	App       AppConfig
	Retention RetentionConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	RunTTL   time.Duration
}

// OracleConfig points at the interaction service. An empty URL disables it.
type OracleConfig struct {
	URL           string
	Organism      string
	Timeout       time.Duration
	Retries       int
	RatePerSecond float64
	Burst         int
	CacheTTL      time.Duration
	// CacheDir is the badger directory used by the offline worker.
	CacheDir string
}

type AtomizerConfig struct {
	MaxPasses         int
	MinVotes          int
	PairSingletons    bool
	ForceModification bool
	SoftConstraints   bool
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
	DotBin      string
}

type RetentionConfig struct {
	Schedule string
	MaxAge   time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Enabled:  getEnvAsBool("DB_ENABLED", false),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "atomizer"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			RunTTL:   getEnvAsDuration("REDIS_RUN_TTL", 7*24*time.Hour),
		},
		Oracle: OracleConfig{
			URL:           getEnv("ORACLE_URL", ""),
			Organism:      getEnv("ORACLE_ORGANISM", ""),
			Timeout:       getEnvAsDuration("ORACLE_TIMEOUT", 5*time.Second),
			Retries:       getEnvAsInt("ORACLE_RETRIES", 3),
			RatePerSecond: getEnvAsFloat("ORACLE_RATE_PER_SECOND", 5),
			Burst:         getEnvAsInt("ORACLE_BURST", 5),
			CacheTTL:      getEnvAsDuration("ORACLE_CACHE_TTL", 24*time.Hour),
			CacheDir:      getEnv("ORACLE_CACHE_DIR", ".cache/oracle"),
		},
		Atomizer: AtomizerConfig{
			MaxPasses:         getEnvAsInt("ATOMIZER_MAX_PASSES", 10),
			MinVotes:          getEnvAsInt("ATOMIZER_MIN_VOTES", 1),
			PairSingletons:    getEnvAsBool("ATOMIZER_PAIR_SINGLETONS", true),
			ForceModification: getEnvAsBool("ATOMIZER_FORCE_MODIFICATION", false),
			SoftConstraints:   getEnvAsBool("ATOMIZER_SOFT_CONSTRAINTS", false),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			DotBin:      getEnv("DOT_BIN", "dot"),
		},
		Retention: RetentionConfig{
			Schedule: getEnv("RETENTION_SCHEDULE", "0 0 3 * * *"),
			MaxAge:   getEnvAsDuration("RETENTION_MAX_AGE", 30*24*time.Hour),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Database.Enabled && c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required when DB_ENABLED is set")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required when REDIS_ENABLED is set")
	}
	if c.Atomizer.MaxPasses <= 0 {
		return fmt.Errorf("ATOMIZER_MAX_PASSES must be positive")
	}
	if c.Atomizer.MinVotes <= 0 {
		return fmt.Errorf("ATOMIZER_MIN_VOTES must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}
