package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	JWTSecret string
	JWTExpiry time.Duration

	OTPTTL                time.Duration
	ProviderVerifyTimeout time.Duration

	// Request paths starting with one of these prefixes bypass token
	// authentication entirely.
	PublicPathPrefixes []string

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string

	SNSRegion      string
	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users         string
	Profiles      string
	Verifications string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
			Profiles:      getEnv("DYNAMO_TABLE_PROFILES", "user_profiles"),
			Verifications: getEnv("DYNAMO_TABLE_VERIFICATIONS", "verifications"),
		},

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: getEnvMinutes("JWT_EXPIRY_MINUTES", 7*24*60),

		OTPTTL:                getEnvMinutes("OTP_TTL_MINUTES", 15),
		ProviderVerifyTimeout: getEnvSeconds("PROVIDER_VERIFY_TIMEOUT_SECONDS", 10),

		PublicPathPrefixes: strings.Split(getEnv("PUBLIC_PATH_PREFIXES", "/v1/auth,/v1/health-check"), ","),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion:      getEnv("SNS_REGION", "us-east-1"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvMinutes(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Minute
}

func getEnvSeconds(key string, fallback int) time.Duration {
	return time.Duration(getEnvInt(key, fallback)) * time.Second
}
