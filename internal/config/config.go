package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	LogLevel  string
	OutputDir string

	ListenerIntervalSec int
	ListenerAutoExport  bool

	WordpressURL      string
	WordpressUser     string
	WordpressPass     string
	WooConsumerKey    string
	WooConsumerSecret string
	WooTimeoutMs      int
	WooRateLimitRPS   float64

	SheetBackend          string
	GoogleSheetID         string
	GoogleSheetName       string
	GoogleSheetMaxRow     int
	GoogleAPIKey          string
	GoogleCredentialsFile string
	GoogleClientID        string
	GoogleClientSecret    string
	GoogleRefreshToken    string
	SheetXLSXPath         string

	FileStoreDriver string

	FTPHost      string
	FTPPort      int
	FTPUser      string
	FTPPass      string
	FTPHostKey   string
	FTPPath      string
	FTPTimeoutMs int

	FTPErrorDir     string
	FTPNotFoundDir  string
	FTPProcessedDir string
	FTPIgnore       []string

	S3Bucket   string
	S3Region   string
	S3Endpoint string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "catalogsync.db")),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		ListenerIntervalSec: getEnvInt("LISTENER_INTERVAL_SEC", 300),
		ListenerAutoExport:  getEnvBool("LISTENER_AUTO_EXPORT", false),

		WordpressURL:      getEnv("WORDPRESS_URL", ""),
		WordpressUser:     getEnv("WORDPRESS_USER", ""),
		WordpressPass:     getEnv("WORDPRESS_PASS", ""),
		WooConsumerKey:    getEnv("WORDPRESS_KEY", ""),
		WooConsumerSecret: getEnv("WORDPRESS_SEC", ""),
		WooTimeoutMs:      getEnvInt("WOO_TIMEOUT_MS", 30000),
		WooRateLimitRPS:   getEnvFloat("WOO_RATE_LIMIT_RPS", 0),

		SheetBackend:          strings.ToLower(getEnv("SHEET_BACKEND", "google")),
		GoogleSheetID:         getEnv("GOOGLE_SHEET_ID", ""),
		GoogleSheetName:       getEnv("GOOGLE_SHEET_NAME", "KOLSTAD"),
		GoogleSheetMaxRow:     getEnvInt("GOOGLE_SHEET_MAX_ROW", 3000),
		GoogleAPIKey:          getEnv("GOOGLE_API_KEY", ""),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),
		GoogleClientID:        getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:    getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRefreshToken:    getEnv("GOOGLE_REFRESH_TOKEN", ""),
		SheetXLSXPath:         getEnv("SHEET_XLSX_PATH", filepath.Join(cwd, "data", "catalog.xlsx")),

		FileStoreDriver: strings.ToLower(getEnv("FILESTORE_DRIVER", "sftp")),

		FTPHost:      getEnv("FTP_HOST", ""),
		FTPPort:      getEnvInt("FTP_PORT", 22),
		FTPUser:      getEnv("FTP_USER", ""),
		FTPPass:      getEnv("FTP_PASS", ""),
		FTPHostKey:   getEnv("FTP_HOST_KEY", ""),
		FTPPath:      getEnv("FTP_PATH", "/"),
		FTPTimeoutMs: getEnvInt("FTP_TIMEOUT_MS", 15000),

		FTPErrorDir:     getEnv("FTP_ERROR_DIR", "error"),
		FTPNotFoundDir:  getEnv("FTP_NOTFOUND_DIR", "notfound"),
		FTPProcessedDir: getEnv("FTP_PROCESSED_DIR", ""),
		FTPIgnore:       getEnvList("FTP_IGNORE"),

		S3Bucket:   getEnv("S3_BUCKET", ""),
		S3Region:   getEnv("S3_REGION", "us-east-1"),
		S3Endpoint: getEnv("S3_ENDPOINT", ""),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

// RequireAll stops at the first missing key.
func (c Config) RequireAll(pairs ...string) error {
	if len(pairs)%2 != 0 {
		return fmt.Errorf("RequireAll: odd number of arguments")
	}
	for i := 0; i < len(pairs); i += 2 {
		if err := c.Require(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) WooTimeout() time.Duration {
	return time.Duration(c.WooTimeoutMs) * time.Millisecond
}

func (c Config) ListenerInterval() time.Duration {
	return time.Duration(c.ListenerIntervalSec) * time.Second
}

func (c Config) FTPTimeout() time.Duration {
	return time.Duration(c.FTPTimeoutMs) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
