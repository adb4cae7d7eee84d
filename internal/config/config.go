package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable; required ones abort startup when missing.
type Config struct {
	Env  string // application environment (dev/test/prod)
	Port string // HTTP port to listen on

	DBUser string
	DBPass string // optional, empty allowed
	DBHost string
	DBPort string
	DBName string

	JWTSecret string // secret used to verify streamer tokens

	PaymentBaseURL   string // payment provider API base url
	PaymentSecretKey string // provider secret key
	CheckoutSuccess  string // redirect after a completed checkout
	CheckoutCancel   string // redirect after an abandoned checkout
	Currency         string // ISO currency code, lowercase

	PricingCacheTTL time.Duration // how long pricing rows live in Redis
}

// Load reads configuration from the environment.  Required variables are
// enforced by must(); missing values exit with a fatal log message.
func Load() Config {
	return Config{
		Env:              must("APP_ENV"),
		Port:             must("APP_PORT"),
		DBUser:           must("DB_USER"),
		DBPass:           os.Getenv("DB_PASS"),
		DBHost:           must("DB_HOST"),
		DBPort:           must("DB_PORT"),
		DBName:           must("DB_NAME"),
		JWTSecret:        must("JWT_SECRET"),
		PaymentBaseURL:   getenv("PAYMENT_BASE_URL", "https://api.stripe.com"),
		PaymentSecretKey: must("PAYMENT_SECRET_KEY"),
		CheckoutSuccess:  must("CHECKOUT_SUCCESS_URL"),
		CheckoutCancel:   must("CHECKOUT_CANCEL_URL"),
		Currency:         getenv("CURRENCY", "eur"),
		PricingCacheTTL:  getenvDur("PRICING_CACHE_TTL", 30*time.Second),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}
