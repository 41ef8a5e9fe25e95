package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Token     TokenConfig
	Scanner   ScannerConfig
	WebSocket WebSocketConfig
	CORS      CORSConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Port    string
	Host    string
	Env     string
	BaseURL string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// TokenConfig holds the scanner token settings. Secret may be empty: token
// issuance and verification then fail closed.
type TokenConfig struct {
	Secret    string
	Header    string
	Algorithm string
	NBFOffset time.Duration
	EXPOffset time.Duration
}

type ScannerConfig struct {
	SiteTitle     string
	Icon          string
	AllowCheckOut bool
}

type WebSocketConfig struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	MaxConnPerUser int
}

type CORSConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	godotenv.Load()

	nbf, err := getEnvAsSeconds("JWT_NBF_OFFSET", 0)
	if err != nil {
		return nil, err
	}

	exp, err := getEnvAsSeconds("JWT_EXP_OFFSET", 9000)
	if err != nil {
		return nil, err
	}

	alg := getEnv("JWT_ALG", "HS256")
	switch alg {
	case "HS256", "HS384", "HS512":
	default:
		return nil, fmt.Errorf("invalid JWT_ALG: %s", alg)
	}

	tokenHeader := getEnv("TOKEN_HEADER", "X-Authorization")

	return &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			Host:    getEnv("HOST", "0.0.0.0"),
			Env:     getEnv("ENV", "development"),
			BaseURL: strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/") + "/",
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5984"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "password"),
			Name:     getEnv("DB_NAME", "eventtickets"),
		},
		Token: TokenConfig{
			Secret:    os.Getenv("JWT_SECRET_KEY"),
			Header:    tokenHeader,
			Algorithm: alg,
			NBFOffset: nbf,
			EXPOffset: exp,
		},
		Scanner: ScannerConfig{
			SiteTitle:     getEnv("SITE_TITLE", "Event Tickets"),
			Icon:          getEnv("SCANNER_ICON", "favicon-152.png"),
			AllowCheckOut: getEnvAsBool("ALLOW_CHECK_OUT", true),
		},
		WebSocket: WebSocketConfig{
			WriteWait:      10 * time.Second,
			PongWait:       60 * time.Second,
			PingPeriod:     54 * time.Second,
			MaxConnPerUser: getEnvAsInt("WS_MAX_CONN_PER_USER", 5),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods: getEnv("CORS_ALLOWED_METHODS", "GET,POST,OPTIONS"),
			AllowedHeaders: getEnv("CORS_ALLOWED_HEADERS", "Content-Type,"+tokenHeader),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSeconds accepts either a plain number of seconds or a Go duration
// string ("2h30m").
func getEnvAsSeconds(key string, defaultSeconds int) (time.Duration, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return time.Duration(defaultSeconds) * time.Second, nil
	}
	if n, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
