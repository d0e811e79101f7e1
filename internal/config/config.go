package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string

	// Mail transport
	MailAPIURL      string
	MailAPIKey      string
	MailFromAddress string
	MailTimeout     time.Duration

	// Broadcast
	// SendInterval は配信の連続する送信リクエスト間に空ける最小間隔。
	// 外部メールAPIのレート上限（約1.5 req/sec）に合わせたデフォルト600ms。
	SendInterval time.Duration

	// Rate Limit
	RateLimitGeneral   int
	RateLimitSubscribe int

	// Admin
	AdminToken string

	// Cleanup
	EventRetentionDays int

	// Server
	ServerPort string
	BaseURL    string

	// Metrics
	// MetricsPort はPrometheusスクレイプ用の内部ポート。公開ポートとは分離する。
	MetricsPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.MailAPIKey = os.Getenv("MAIL_API_KEY")
	if cfg.MailAPIKey == "" {
		missing = append(missing, "MAIL_API_KEY")
	}

	cfg.MailFromAddress = os.Getenv("MAIL_FROM_ADDRESS")
	if cfg.MailFromAddress == "" {
		missing = append(missing, "MAIL_FROM_ADDRESS")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")
	if cfg.BaseURL == "" {
		missing = append(missing, "BASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.MailAPIURL = getEnvString("MAIL_API_URL", "https://api.postmail.dev/v1")
	cfg.MailTimeout = getEnvDuration("MAIL_TIMEOUT", 10*time.Second)
	cfg.SendInterval = getEnvDuration("SEND_INTERVAL", 600*time.Millisecond)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitSubscribe = getEnvInt("RATE_LIMIT_SUBSCRIBE", 10)
	cfg.AdminToken = getEnvString("ADMIN_TOKEN", "")
	cfg.EventRetentionDays = getEnvInt("EVENT_RETENTION_DAYS", 180)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.MetricsPort = getEnvString("METRICS_PORT", "9091")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	// BaseURLの末尾スラッシュは配信URL組み立て時の二重スラッシュ防止のため除去する
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
