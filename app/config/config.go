package config

import (
	"database/sql"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	DB     *sql.DB
	Stripe StripeConfig

	JWTSecret  string
	AppBaseURL string

	// Fallback tax percentage for invoice export when the user has not
	// saved their own rate.
	InvoiceTaxRate float64

	ListenAddr string
}

type StripeConfig struct {
	SecretKey      string
	WebhookSecret  string
	DefaultPriceID string
}

var AppConfig *Config

// Load reads .env (if present) and the environment into AppConfig, then
// opens the database. Call once from main before anything touches the DB.
func Load() {
	_ = godotenv.Load()

	cfg := &Config{
		JWTSecret:  os.Getenv("JWT_SECRET"),
		AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:8080"),
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
		Stripe: StripeConfig{
			SecretKey:      os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret:  os.Getenv("STRIPE_WEBHOOK_SECRET"),
			DefaultPriceID: os.Getenv("STRIPE_PRICE_ID"),
		},
		InvoiceTaxRate: getEnvFloat("INVOICE_TAX_RATE", 0),
	}

	if cfg.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET is not set, using an insecure development secret")
		cfg.JWTSecret = "clockworkpal-dev-secret"
	}
	if cfg.Stripe.SecretKey == "" {
		log.Println("Warning: STRIPE_SECRET_KEY is not set, billing endpoints will fail")
	}

	AppConfig = cfg
	initDB()
}

func initDB() {
	var psqlInfo string

	if url := os.Getenv("DATABASE_URL"); url != "" {
		psqlInfo = url
		log.Println("Using DATABASE_URL for PostgreSQL connection")
	} else {
		psqlInfo = "host=localhost port=5432 user=postgres dbname=clockworkpal sslmode=disable"
		log.Println("DATABASE_URL not set, using local PostgreSQL database")
	}

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	log.Println("Testing database connection...")
	if err = db.Ping(); err != nil {
		log.Printf("Database connection failed: %v", err)
		log.Println("Set DATABASE_URL or start a local PostgreSQL with a 'clockworkpal' database")
		log.Fatal("Cannot establish database connection")
	}

	AppConfig.DB = db
	log.Println("Database connected successfully")
}

func GetDB() *sql.DB {
	return AppConfig.DB
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return f
}
