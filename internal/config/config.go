package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort string
	LogLevel   string

	AirtableAPIKey string
	AirtableBaseID string
	TenantTable    string
	BlacklistTable string

	// BlacklistCheckTypes selects which deny-rule types the submit path
	// consults (kakaoId is handled on the OAuth callback path).
	BlacklistCheckTypes []string

	TelegramBotToken string
	SlackBotToken    string

	AligoAPIKey string
	AligoUserID string
	AligoSender string

	MailHost     string
	MailPort     int
	MailUser     string
	MailPassword string
	MailFrom     string

	KakaoRESTKey     string
	KakaoRedirectURI string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("no .env file found, using system environment variables")
	}

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		AirtableAPIKey: getEnv("AIRTABLE_API_KEY", ""),
		AirtableBaseID: getEnv("AIRTABLE_BASE_ID", ""),
		TenantTable:    getEnv("AIRTABLE_TENANT_TABLE", "clients"),
		BlacklistTable: getEnv("AIRTABLE_BLACKLIST_TABLE", "blacklist"),

		BlacklistCheckTypes: splitList(getEnv("BLACKLIST_CHECK_TYPES", "phone,ip")),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		SlackBotToken:    getEnv("SLACK_BOT_TOKEN", ""),

		AligoAPIKey: getEnv("ALIGO_API_KEY", ""),
		AligoUserID: getEnv("ALIGO_USER_ID", ""),
		AligoSender: getEnv("ALIGO_SENDER", ""),

		MailHost:     getEnv("MAIL_HOST", ""),
		MailPort:     getEnvInt("MAIL_PORT", 587),
		MailUser:     getEnv("MAIL_USER", ""),
		MailPassword: getEnv("MAIL_PASS", ""),
		MailFrom:     getEnv("MAIL_FROM", "no-reply@moaform.io"),

		KakaoRESTKey:     getEnv("KAKAO_REST_KEY", ""),
		KakaoRedirectURI: getEnv("KAKAO_REDIRECT_URI", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logrus.Warnf("invalid %s value %q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
