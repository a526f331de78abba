package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// WhatsApp Cloud API credentials.
	WhatsAppToken         string
	WhatsAppPhoneNumberID string
	GraphAPIBase          string

	// Webhook verification secret for the Meta subscription handshake.
	VerifyToken string

	// Operator who receives consultation notifications.
	AdminWANumber string
	AdminEmail    string

	TemplatesPath string

	// Reply pacing. The bot waits a random delay in [min, max] before
	// sending the classified reply so answers feel less robotic.
	ReplyDelayMin time.Duration
	ReplyDelayMax time.Duration

	// Per-sender throttle window.
	RateLimitWindow time.Duration

	// Dedup cache bounds.
	CacheMaxEntries  int
	CacheKeepEntries int

	// HTTP-level per-client rate limiting.
	HTTPRateLimitRPS   float64
	HTTPRateLimitBurst int

	// SendGrid email notification (optional).
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		WhatsAppToken:         getEnv("WHATSAPP_TOKEN", ""),
		WhatsAppPhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		GraphAPIBase:          getEnv("GRAPH_API_BASE", ""),

		VerifyToken: getEnv("VERIFY_TOKEN", ""),

		AdminWANumber: getEnv("ADMIN_WA_NUMBER", ""),
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),

		TemplatesPath: getEnv("TEMPLATES_PATH", "templates/replies.json"),

		ReplyDelayMin: getEnvAsMillis("REPLY_DELAY_MIN_MS", 800*time.Millisecond),
		ReplyDelayMax: getEnvAsMillis("REPLY_DELAY_MAX_MS", 2500*time.Millisecond),

		RateLimitWindow: getEnvAsMillis("RATE_LIMIT_WINDOW_MS", 2000*time.Millisecond),

		CacheMaxEntries:  getEnvAsInt("CACHE_MAX_ENTRIES", 1000),
		CacheKeepEntries: getEnvAsInt("CACHE_KEEP_ENTRIES", 500),

		HTTPRateLimitRPS:   getEnvAsFloat("HTTP_RATE_LIMIT_RPS", 10),
		HTTPRateLimitBurst: getEnvAsInt("HTTP_RATE_LIMIT_BURST", 20),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "ChatBot WA"),
	}
}

// Validate reports every missing required setting at once so a broken
// deployment fails with one actionable message.
func (c *Config) Validate() error {
	var missing []string
	if c.WhatsAppToken == "" {
		missing = append(missing, "WHATSAPP_TOKEN")
	}
	if c.WhatsAppPhoneNumberID == "" {
		missing = append(missing, "WHATSAPP_PHONE_NUMBER_ID")
	}
	if c.VerifyToken == "" {
		missing = append(missing, "VERIFY_TOKEN")
	}
	if c.AdminWANumber == "" {
		missing = append(missing, "ADMIN_WA_NUMBER")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.ReplyDelayMax < c.ReplyDelayMin {
		return fmt.Errorf("config: REPLY_DELAY_MAX_MS must be >= REPLY_DELAY_MIN_MS")
	}
	if c.CacheKeepEntries > c.CacheMaxEntries {
		return fmt.Errorf("config: CACHE_KEEP_ENTRIES must be <= CACHE_MAX_ENTRIES")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsMillis retrieves an environment variable holding a millisecond count.
func getEnvAsMillis(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil && value >= 0 {
		return time.Duration(value) * time.Millisecond
	}
	return defaultValue
}
