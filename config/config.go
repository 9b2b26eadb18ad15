package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	DBUrl             string
	DBAutoMigrate     bool
	SupabaseUrl       string
	SupabaseJWTSecret string
	FrontendURL       string
	LogLevel          string
	// Redis/Upstash Configuration
	UpstashRedisURL      string
	UpstashRedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitGlobalThreshold int
	UploadLimitPerMinute     int
	UploadLimitPerDay        int
	// Onboarding Wizard
	OnboardingMaxPositions   int
	OnboardingMaxHobbies     int
	OnboardingMaxResumeBytes int64
	OnboardingAPIURL         string // empty = submit in-process
	SubmitTimeout            time.Duration
	SessionIdleTTL           time.Duration
	// Local persistence mirror
	MirrorBackend    string // memory | redis | sqlite
	MirrorSQLitePath string
	MirrorTTL        time.Duration
	// Resume storage
	StorageDriver     string // local | s3
	StorageLocalDir   string
	StoragePublicURL  string
	S3Provider        string
	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Prefix          string
	// Antivirus (empty = no scanning)
	ClamAVAddress string
	// Analytics
	AnalyticsSink   string // log | redis | none
	AnalyticsStream string
}

func LoadConfig() (*Config, error) {
	// Load .env file (only effective locally; ignored in production when absent)
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBUrl:         getEnv("DATABASE_URL", ""),
		DBAutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),
		// Strip the trailing slash to avoid double slashes (e.g. .co//auth)
		SupabaseUrl:       strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseJWTSecret: getEnv("SUPABASE_JWT_SECRET", getEnv("SUPABASE_JWT_KEY", "")),
		FrontendURL:       strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		// Redis/Upstash Configuration
		UpstashRedisURL:      getEnv("UPSTASH_REDIS_URL", ""),
		UpstashRedisPassword: getEnv("UPSTASH_REDIS_PASSWORD", ""),
		// Rate Limiting Configuration (with sensible defaults)
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),    // 1 minute window
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100), // 100 requests per window
		UploadLimitPerMinute:     getEnvInt("UPLOAD_LIMIT_PER_MINUTE", 10),
		UploadLimitPerDay:        getEnvInt("UPLOAD_LIMIT_PER_DAY", 50),
		// Onboarding Wizard
		OnboardingMaxPositions:   getEnvInt("ONBOARDING_MAX_POSITIONS", 3),
		OnboardingMaxHobbies:     getEnvInt("ONBOARDING_MAX_HOBBIES", 10),
		OnboardingMaxResumeBytes: getEnvInt64("ONBOARDING_MAX_RESUME_BYTES", 5*1024*1024),
		OnboardingAPIURL:         strings.TrimRight(getEnv("ONBOARDING_API_URL", ""), "/"),
		SubmitTimeout:            getEnvDuration("SUBMIT_TIMEOUT", 30*time.Second),
		SessionIdleTTL:           getEnvDuration("SESSION_IDLE_TTL", 30*time.Minute),
		// Mirror
		MirrorBackend:    getEnv("MIRROR_BACKEND", "memory"),
		MirrorSQLitePath: getEnv("MIRROR_SQLITE_PATH", "onboarding.db"),
		MirrorTTL:        getEnvDuration("MIRROR_TTL", 30*24*time.Hour),
		// Storage
		StorageDriver:     getEnv("STORAGE_DRIVER", "local"),
		StorageLocalDir:   getEnv("STORAGE_LOCAL_DIR", "./uploads"),
		StoragePublicURL:  strings.TrimRight(getEnv("STORAGE_PUBLIC_URL", "http://localhost:8080/uploads"), "/"),
		S3Provider:        getEnv("S3_PROVIDER", "aws"),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Prefix:          getEnv("S3_PREFIX", ""),
		// Antivirus
		ClamAVAddress: getEnv("CLAMAV_ADDRESS", ""),
		// Analytics
		AnalyticsSink:   getEnv("ANALYTICS_SINK", "log"),
		AnalyticsStream: getEnv("ANALYTICS_STREAM", "onboarding:events"),
	}

	// Basic validation to prevent odd panics later
	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}

	// Log Redis configuration status (helpful for debugging)
	if cfg.UpstashRedisURL == "" {
		log.Println("WARNING: UPSTASH_REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	if cfg.SupabaseJWTSecret == "" && cfg.SupabaseUrl == "" {
		log.Println("WARNING: neither SUPABASE_JWT_SECRET nor SUPABASE_URL is set. All authenticated routes will reject requests.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("30s", "2m") or plain seconds
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
