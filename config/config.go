package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port      string
	GinMode   string
	LogLevel  string
	LogFormat string

	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	DatabaseURL   string

	S3 S3Config

	JWTSecret string
	JWTIssuer string

	AdminAPIKey        string
	CORSAllowedOrigins []string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() *Config {
	// Missing .env is expected in production
	_ = godotenv.Load()

	return &Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "debug"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		MongoURI:      getEnv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "faunapedia"),
		DatabaseURL:   databaseURL(),

		S3: GetS3Config(),

		JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
		JWTIssuer: os.Getenv("AUTH_JWT_ISSUER"),

		AdminAPIKey:        os.Getenv("ADMIN_API_KEY"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required for the %s driver", DriverMongo)
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL or DB_HOST is required for the %s driver", DriverPostgres)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	return nil
}

func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return ""
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		dbHost,
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		getEnv("DB_PORT", "5432"),
	)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
