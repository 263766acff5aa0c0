package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Session TTL bounds in seconds, matching what the storefront admin
// screen accepts.
const (
	minSessionTTLSeconds     = 300
	maxSessionTTLSeconds     = 3600
	defaultSessionTTLSeconds = 1200
)

// Config holds service configuration.
type Config struct {
	ServerAddr          string
	DatabaseURL         string
	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	SessionTTL          time.Duration
	WizardVersion       string
	ShopperCookieName   string
	ShopperCookieSecure bool
	StorefrontAPIURL    string
	PageBaseURL         string
	CheckoutURL         string
	CartURL             string
	RequiredFields      []string
	StepRules           map[int]string
	LogLevel            string
}

// Load reads configuration from environment.
func Load() (*Config, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		user := getenv("POSTGRES_USER", "wizard")
		pass := getenv("POSTGRES_PASSWORD", "wizard_pass")
		db := getenv("POSTGRES_DB", "wizard")
		host := getenv("POSTGRES_HOST", "localhost")
		port := getenv("POSTGRES_PORT", "5432")
		sslmode := getenv("DATABASE_SSLMODE", "disable")
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, db, sslmode)
	}

	ttlSeconds := clampInt(parseInt(getenv("SESSION_TTL", ""), defaultSessionTTLSeconds), minSessionTTLSeconds, maxSessionTTLSeconds)

	storefront := getenv("STOREFRONT_API_URL", "http://localhost:8081")
	pageBase := getenv("PAGE_BASE_URL", storefront)

	rules := make(map[int]string)
	for step := 1; step <= 4; step++ {
		if rule := os.Getenv(fmt.Sprintf("STEP_RULE_%d", step)); rule != "" {
			rules[step] = rule
		}
	}

	return &Config{
		ServerAddr:          getenv("SERVER_ADDR", "0.0.0.0:8080"),
		DatabaseURL:         dsn,
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		RedisDB:             parseInt(getenv("REDIS_DB", "0"), 0),
		SessionTTL:          time.Duration(ttlSeconds) * time.Second,
		WizardVersion:       getenv("WIZARD_VERSION", "1.0"),
		ShopperCookieName:   getenv("SHOPPER_COOKIE_NAME", "wizard_shopper"),
		ShopperCookieSecure: parseBool(getenv("SHOPPER_COOKIE_SECURE", "false"), false),
		StorefrontAPIURL:    storefront,
		PageBaseURL:         pageBase,
		CheckoutURL:         getenv("CHECKOUT_URL", pageBase+"/checkout/native"),
		CartURL:             getenv("CART_URL", pageBase+"/cart"),
		RequiredFields:      splitCSV(getenv("STEP2_REQUIRED_FIELDS", "field_1,field_2")),
		StepRules:           rules,
		LogLevel:            getenv("LOG_LEVEL", "info"),
	}, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseBool(val string, def bool) bool {
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return b
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return n
}

func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
