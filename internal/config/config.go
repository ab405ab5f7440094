package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Telegram TelegramConfig
	Sheets   SheetsConfig
	Topics   TopicConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	SessionIdleTimeout time.Duration
	StoreTimeout       time.Duration
}

type TelegramConfig struct {
	BotToken      string
	WebhookSecret string
}

type SheetsConfig struct {
	BaseURL       string
	Token         string
	SpreadsheetID string
	SummarySheet  string
	LogSheet      string
}

type TopicConfig struct {
	ReportLog string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			SessionIdleTimeout: getEnvAsDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
			StoreTimeout:       getEnvAsDuration("STORE_TIMEOUT", 10*time.Second),
		},
		Telegram: TelegramConfig{
			BotToken:      getEnv("TELEGRAM_BOT_TOKEN", ""),
			WebhookSecret: getEnv("TELEGRAM_WEBHOOK_SECRET", ""),
		},
		Sheets: SheetsConfig{
			BaseURL:       getEnv("SHEETS_BASE_URL", "https://sheets.googleapis.com"),
			Token:         getEnv("SHEETS_TOKEN", ""),
			SpreadsheetID: getEnv("SHEETS_SPREADSHEET_ID", ""),
			SummarySheet:  getEnv("SHEETS_SUMMARY_SHEET", "Summary"),
			LogSheet:      getEnv("SHEETS_LOG_SHEET", "Log"),
		},
		Topics: TopicConfig{
			ReportLog: getEnv("REPORT_LOG_TOPIC", "REPORT_LOG_APPEND"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
