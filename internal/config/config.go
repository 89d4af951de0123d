package config

import (
	"log"
	"os"
	"strconv"

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
	FSPath      string // Physical directory for document uploads and QR images
	FSURL       string // URL path prefix for file access

	// Approval engine settings
	EscalationThreshold float64 // Monetary threshold above which escalation-only rungs stay in the chain
	EscalationRole      string  // Role removed from chains at or below the threshold
	AdminRole           string  // Role that bypasses gate evaluation
	ReminderSchedule    string  // Cron expression for the stale-gate reminder sweep
	ReminderMaxAgeHours int     // Pending age after which a gate counts as stale

	// External ERP vendor sync
	ERPSyncDriver string // "postgresql" or "mysql"
	ERPSyncDSN    string
	ERPSyncTable  string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "go-procure"),
		SkipAuth:    getEnv("SKIP_AUTH", "false") == "true",
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "go-procure"),
		FSPath:      getEnv("FS_PATH", "./uploads"),
		FSURL:       getEnv("FS_URL", "/fs/uploads"),

		EscalationThreshold: getEnvFloat("ESCALATION_THRESHOLD", 300000000),
		EscalationRole:      getEnv("ESCALATION_ROLE", "Vice President"),
		AdminRole:           getEnv("ADMIN_ROLE", "Admin"),
		ReminderSchedule:    getEnv("REMINDER_SCHEDULE", "0 * * * *"),
		ReminderMaxAgeHours: getEnvInt("REMINDER_MAX_AGE_HOURS", 48),

		ERPSyncDriver: getEnv("ERP_SYNC_DRIVER", "postgresql"),
		ERPSyncDSN:    getEnv("ERP_SYNC_DSN", ""),
		ERPSyncTable:  getEnv("ERP_SYNC_TABLE", "vendors"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
