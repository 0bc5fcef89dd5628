package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIORNMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	// All variables
	GO_ENV string
	PORT   int
	// Database Configuration
	DB_DRIVER    string // postgres, sqlite
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	SQLITE_PATH  string
	// Session Configuration
	SESSION_SECRET string
	SESSION_TTL    time.Duration
	COOKIE_SECURE  bool
	// Redis Configuration
	REDIS_URL string
	// HTTP
	ALLOWED_ORIGINS string
	TIMEZONE        *time.Location
	// AI Configuration
	AI_PROVIDER     string // openai, gemini
	OPENAI_API_KEY  string
	OPENAI_BASE_URL string
	OPENAI_MODEL    string
	GEMINI_API_KEY  string
	GEMINI_MODEL    string
	DOUBT_RESPONDER string // keyword, ai
	// Background jobs
	CRON_ENABLED bool
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 5001
	}

	goEnv := os.Getenv("GO_ENV")

	sessionTTLHours, err := strconv.Atoi(os.Getenv("SESSION_TTL_HOURS"))
	if err != nil || sessionTTLHours <= 0 {
		sessionTTLHours = 24 * 7
	}

	cookieSecure := goEnv == "production"
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		cookieSecure, _ = strconv.ParseBool(v)
	}

	location := time.Local
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		location, err = time.LoadLocation(tz)
		if err != nil {
			return nil, err
		}
	}

	envVariables := &EnviornmentVariable{
		GO_ENV: goEnv,
		PORT:   port,
		// Database
		DB_DRIVER:    strings.ToLower(getEnvOrDefault("DB_DRIVER", "postgres")),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      getEnvOrDefault("DB_HOST", "localhost"),
		DB_PORT:      getEnvOrDefault("DB_PORT", "5432"),
		DB_SSL_MODE:  getEnvOrDefault("DB_SSL_MODE", "disable"),
		SQLITE_PATH:  getEnvOrDefault("SQLITE_PATH", "study_planner.db"),
		// Session
		SESSION_SECRET: os.Getenv("SESSION_SECRET"),
		SESSION_TTL:    time.Duration(sessionTTLHours) * time.Hour,
		COOKIE_SECURE:  cookieSecure,
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// HTTP
		ALLOWED_ORIGINS: getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:5001,http://localhost:3000"),
		TIMEZONE:        location,
		// AI
		AI_PROVIDER:     strings.ToLower(getEnvOrDefault("AI_PROVIDER", "openai")),
		OPENAI_API_KEY:  os.Getenv("OPENAI_API_KEY"),
		OPENAI_BASE_URL: os.Getenv("OPENAI_BASE_URL"),
		OPENAI_MODEL:    getEnvOrDefault("OPENAI_MODEL", "gpt-3.5-turbo"),
		GEMINI_API_KEY:  os.Getenv("GEMINI_API_KEY"),
		GEMINI_MODEL:    getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		DOUBT_RESPONDER: strings.ToLower(getEnvOrDefault("DOUBT_RESPONDER", "keyword")),
		// Cron defaults to enabled
		CRON_ENABLED: os.Getenv("CRON_ENABLED") != "false",
	}

	return envVariables, nil
}

// getEnvOrDefault returns environment variable or default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
