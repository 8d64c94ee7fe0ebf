package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string

	// SourceMarker is stamped into every outbound payload as "$source".
	SourceMarker string

	// DispatchTimeout bounds each upload POST to the engagement platform.
	DispatchTimeout time.Duration

	// BatchChunkSize is how many records a historical sync pulls per chunk.
	BatchChunkSize int

	// BatchSummaryLog controls whether a historical run writes a trailing
	// summary entry next to its per-record entries.
	BatchSummaryLog bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:            getEnv("PORT", "8080"),
		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:          getEnv("DB_NAME", "cet-sync"),
		SkipAuth:        getEnv("SKIP_AUTH", "false") == "true",
		Environment:     getEnv("ENVIRONMENT", "development"),
		AppId:           getEnv("APP_ID", "cet-sync"),
		SourceMarker:    getEnv("SOURCE_MARKER", "SFDC"),
		DispatchTimeout: time.Duration(getEnvInt("DISPATCH_TIMEOUT_SECONDS", 120)) * time.Second,
		BatchChunkSize:  getEnvInt("BATCH_CHUNK_SIZE", 200),
		BatchSummaryLog: getEnv("BATCH_SUMMARY_LOG", "false") == "true",
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
