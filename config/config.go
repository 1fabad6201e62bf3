package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting. Twilio and object storage are
// optional; when their variables are absent the corresponding features
// degrade (SMS logs instead of sending, backups stay local).
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int
	PublicURL    string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	BackupDir string

	StorageEndpoint        string
	StorageRegion          string
	StorageAccessKeyID     string
	StorageSecretAccessKey string
	StorageBucketName      string
	StoragePublicBaseURL   string

	LeagueName         string
	LeagueShortName    string
	LeagueDescription  string
	LeagueContactEmail string
	LeagueContactPhone string
	LeagueLocation     string
	LeagueWebsite      string
	LeagueRulesURL     string
}

// Load reads configuration from environment variables, sourcing .env
// first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	publicURL := os.Getenv("PUBLIC_URL")
	if publicURL == "" {
		publicURL = fmt.Sprintf("http://localhost:%d", port)
	}

	backupDir := os.Getenv("BACKUP_DIR")
	if backupDir == "" {
		backupDir = "backups"
	}

	cfg := &Config{
		DatabaseURL:  dbURL,
		JWTSecretKey: jwtKey,
		ServerPort:   port,
		PublicURL:    publicURL,

		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFromNumber: os.Getenv("TWILIO_FROM_NUMBER"),

		BackupDir: backupDir,

		StorageEndpoint:        os.Getenv("STORAGE_ENDPOINT"),
		StorageRegion:          os.Getenv("STORAGE_REGION"),
		StorageAccessKeyID:     os.Getenv("STORAGE_ACCESS_KEY_ID"),
		StorageSecretAccessKey: os.Getenv("STORAGE_SECRET_ACCESS_KEY"),
		StorageBucketName:      os.Getenv("STORAGE_BUCKET_NAME"),
		StoragePublicBaseURL:   os.Getenv("STORAGE_PUBLIC_BASE_URL"),

		LeagueName:         envOrDefault("LEAGUE_NAME", "Pool League"),
		LeagueShortName:    envOrDefault("LEAGUE_SHORT_NAME", "League"),
		LeagueDescription:  envOrDefault("LEAGUE_DESCRIPTION", "Pool/Billiards League Management"),
		LeagueContactEmail: os.Getenv("LEAGUE_CONTACT_EMAIL"),
		LeagueContactPhone: os.Getenv("LEAGUE_CONTACT_PHONE"),
		LeagueLocation:     os.Getenv("LEAGUE_LOCATION"),
		LeagueWebsite:      os.Getenv("LEAGUE_WEBSITE"),
		LeagueRulesURL:     os.Getenv("LEAGUE_RULES_URL"),
	}

	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

// StorageConfigured reports whether object storage credentials are
// present.
func (c *Config) StorageConfigured() bool {
	return c.StorageAccessKeyID != "" && c.StorageSecretAccessKey != "" && c.StorageBucketName != ""
}

// SMSConfigured reports whether Twilio credentials are present.
func (c *Config) SMSConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != ""
}
