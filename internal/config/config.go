package config

import (
	"os"
	"strings"
)

// S3 holds settings for the optional encrypted backup target. Backups are
// disabled unless bucket and both keys are set.
type S3 struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
}

// Config keeps runtime settings for the server.
type Config struct {
	Port             string
	DBPath           string
	LogLevel         string
	LogFormat        string
	RemindAt         string // HH:MM, daily due-chore summary
	BackupAt         string // HH:MM, nightly backup when configured
	BackupPassphrase string
	S3               S3
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	cfg := Config{
		Port:             getenv("CHOREBOARD_PORT", "8080"),
		DBPath:           getenv("CHOREBOARD_DB_PATH", "choreboard.db"),
		LogLevel:         getenv("CHOREBOARD_LOG_LEVEL", "info"),
		LogFormat:        getenv("CHOREBOARD_LOG_FORMAT", "text"),
		RemindAt:         getenv("CHOREBOARD_REMIND_AT", "08:00"),
		BackupAt:         getenv("CHOREBOARD_BACKUP_AT", "03:00"),
		BackupPassphrase: strings.TrimSpace(os.Getenv("CHOREBOARD_BACKUP_PASSPHRASE")),
		S3: S3{
			Endpoint:  strings.TrimSpace(os.Getenv("CHOREBOARD_S3_ENDPOINT")),
			Bucket:    strings.TrimSpace(os.Getenv("CHOREBOARD_S3_BUCKET")),
			Region:    getenv("CHOREBOARD_S3_REGION", "auto"),
			AccessKey: strings.TrimSpace(os.Getenv("CHOREBOARD_S3_ACCESS_KEY")),
			SecretKey: strings.TrimSpace(os.Getenv("CHOREBOARD_S3_SECRET_KEY")),
		},
	}
	return cfg
}

func getenv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
