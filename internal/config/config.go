package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Each field
// corresponds to an environment variable. Core components never read
// the environment themselves; everything flows through this struct,
// constructed once at startup.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	// Credential store selection and connection parameters.
	StoreDriver string // "mysql" or "mongo"
	DBUser      string // MySQL username
	DBPass      string // MySQL password (optional)
	DBHost      string // MySQL host address
	DBPort      string // MySQL port number
	DBName      string // MySQL database name
	MongoURI    string // MongoDB connection string
	MongoDBName string // MongoDB database name

	// Token signing. The refresh secret is optional and falls back to
	// the access secret inside the token service.
	JWTSecret        string        // secret used to sign access tokens
	JWTRefreshSecret string        // distinct secret for refresh tokens, optional
	AccessTTL        time.Duration // access token time-to-live
	RefreshTTL       time.Duration // refresh token time-to-live

	// Password hashing and lockout.
	BcryptCost       int           // bcrypt cost for password hashing
	LockoutThreshold int           // consecutive failures before a lock
	LockoutDuration  time.Duration // how long a triggered lock lasts
}

// Load reads configuration from environment variables. Required
// variables are enforced by must() and missing values cause the
// program to exit with a fatal log message; tunables fall back to
// hardened defaults.
func Load() Config {
	return Config{
		Env:              must("APP_ENV"),
		Port:             must("APP_PORT"),
		StoreDriver:      envStr("AUTH_STORE_DRIVER", "mysql"),
		DBUser:           os.Getenv("DB_USER"),
		DBPass:           os.Getenv("DB_PASS"),
		DBHost:           os.Getenv("DB_HOST"),
		DBPort:           os.Getenv("DB_PORT"),
		DBName:           os.Getenv("DB_NAME"),
		MongoURI:         envStr("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:      envStr("MONGO_DB", "shipment_tracker"),
		JWTSecret:        must("JWT_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		AccessTTL:        envDur("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTTL:       envDur("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		BcryptCost:       envInt("BCRYPT_COST", 12),
		LockoutThreshold: envInt("LOCKOUT_THRESHOLD", 5),
		LockoutDuration:  envDur("LOCKOUT_DURATION", 30*time.Minute),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
