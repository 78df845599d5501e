package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               int
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// StorageConfig selects where page documents and branding settings are kept.
// Driver is either "filesystem" (default, rooted at DataDir) or "minio".
type StorageConfig struct {
	Driver  string
	DataDir string
}

// MailConfig configures the Resend-backed mail sender used by the email log resend flow.
type MailConfig struct {
	ResendAPIKey string
	From         string
}

// LogConfig configures the root zerolog logger.
type LogConfig struct {
	Level    string
	Format   string
	Timezone string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables once at startup and treated as read-only afterwards.
type AppConfig struct {
	AppHost    string
	Port       string
	AdminToken string
	Log        LogConfig
	Database   DatabaseConfig
	Storage    StorageConfig
	MinIO      MinIOConfig
	Mail       MailConfig
}

// MissingEnvError reports required environment variables that were not set.
type MissingEnvError struct {
	Keys []string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Keys, ", "))
}

var requiredDatabaseEnv = []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_NAME"}

// LoadDatabase reads the database credentials from the environment.
// It fails immediately when any of DB_HOST, DB_PORT, DB_USER or DB_NAME is absent,
// naming every missing variable. DB_PASSWORD is optional and defaults to "".
func LoadDatabase() (DatabaseConfig, error) {
	var missing []string
	for _, key := range requiredDatabaseEnv {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return DatabaseConfig{}, &MissingEnvError{Keys: missing}
	}

	port, err := strconv.Atoi(os.Getenv("DB_PORT"))
	if err != nil {
		return DatabaseConfig{}, fmt.Errorf("invalid DB_PORT %q: must be numeric", os.Getenv("DB_PORT"))
	}

	return DatabaseConfig{
		Host:               os.Getenv("DB_HOST"),
		Port:               port,
		User:               os.Getenv("DB_USER"),
		Password:           os.Getenv("DB_PASSWORD"),
		Name:               os.Getenv("DB_NAME"),
		SSLMode:            getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
	}, nil
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over the file.
func Load() (*AppConfig, error) {
	db, err := LoadDatabase()
	if err != nil {
		return nil, err
	}

	return &AppConfig{
		AppHost:    getEnv("APP_HOST", "localhost:8080"),
		Port:       getEnv("PORT", "8080"),
		AdminToken: getEnv("ADMIN_API_TOKEN", ""),
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Format:   getEnv("LOG_FORMAT", "json"),
			Timezone: getEnv("APP_TIMEZONE", "UTC"),
		},
		Database: db,
		Storage: StorageConfig{
			Driver:  getEnv("STORAGE_DRIVER", "filesystem"),
			DataDir: getEnv("DATA_DIR", "data"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Mail: MailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			From:         getEnv("MAIL_FROM", "CMS <noreply@example.com>"),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
