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
	Port         string
	GinMode      string
	DatasetPath  string
	ImageRoot    string
	CatalogCache bool
	SiteURL      string

	// OAuth2 triple for the mailbox that relays enquiries. Never logged.
	ClientID     string
	ClientSecret string
	RefreshToken string
	TokenURL     string
	MailFrom     string
	Recipients   []string
	TokenTimeout time.Duration
	SendTimeout  time.Duration
	SendWorkers  int

	LogLevel      string
	LogFormat     string
	FluentEnabled bool
	FluentHost    string
	FluentPort    int
	FluentTag     string
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		Port:         getEnv("PORT", "5000"),
		GinMode:      getEnv("GIN_MODE", ""),
		DatasetPath:  getEnv("DATA_PATH", "./properties.json"),
		ImageRoot:    getEnv("IMAGE_ROOT", "./images"),
		CatalogCache: getEnvBool("CATALOG_CACHE", false),
		SiteURL:      strings.TrimRight(getEnv("SITE_URL", "https://www.shorelandsrealestate.com"), "/"),

		ClientID:     getEnv("CLIENT_ID", ""),
		ClientSecret: getEnv("CLIENT_SECRET", ""),
		RefreshToken: getEnv("REFRESH_TOKEN", ""),
		TokenURL:     getEnv("OAUTH_TOKEN_URL", ""),
		MailFrom:     getEnv("MAIL_FROM", "shorelandsrealestate@gmail.com"),
		Recipients:   getEnvList("ENQUIRY_RECIPIENTS", []string{"yannseal1@gmail.com"}),
		TokenTimeout: getEnvDuration("CREDENTIAL_TIMEOUT", 10*time.Second),
		SendTimeout:  getEnvDuration("SEND_TIMEOUT", 15*time.Second),
		SendWorkers:  getEnvInt("SEND_CONCURRENCY", 4),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		FluentEnabled: getEnvBool("FLUENTBIT_ENABLED", false),
		FluentHost:    getEnv("FLUENTBIT_HOST", "localhost"),
		FluentPort:    getEnvInt("FLUENTBIT_PORT", 24224),
		FluentTag:     getEnv("FLUENTBIT_TAG", "shorelands"),
	}
}

// MailConfigured reports whether the OAuth2 triple is complete.
func (c *Config) MailConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.Printf("[config] %s=%q is not an int, using %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
		log.Printf("[config] %s=%q is not a bool, using %t", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
		log.Printf("[config] %s=%q is not a duration, using %s", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping empty items.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
