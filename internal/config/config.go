package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds the runtime configuration loaded from the environment.
type Config struct {
	DatabaseDSN string
	Port        string

	// VendorState is the place of supply for GST splitting: same state as
	// the customer means CGST+SGST, anything else means IGST.
	VendorState string

	// ApprovalThreshold gates confirmation: quotations totalling this much
	// or more need an admin decision first.
	ApprovalThreshold decimal.Decimal

	DefaultCGSTRate decimal.Decimal
	DefaultSGSTRate decimal.Decimal
	DefaultIGSTRate decimal.Decimal
}

// Load reads configs/.env (when present) and assembles the Config with
// development defaults for anything unset.
func Load() Config {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg := Config{
		DatabaseDSN:       buildDSN(),
		Port:              getEnv("PORT", "8080"),
		VendorState:       getEnv("VENDOR_STATE", "Maharashtra"),
		ApprovalThreshold: getDecimal("APPROVAL_THRESHOLD", "50000"),
		DefaultCGSTRate:   getDecimal("DEFAULT_CGST_RATE", "9"),
		DefaultSGSTRate:   getDecimal("DEFAULT_SGST_RATE", "9"),
		DefaultIGSTRate:   getDecimal("DEFAULT_IGST_RATE", "18"),
	}
	return cfg
}

func buildDSN() string {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "postgres")
	name := getEnv("DB_NAME", "postgres")
	sslMode := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + password + "@" + host + ":" + port + "/" + name + "?sslmode=" + sslMode
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDecimal(key, fallback string) decimal.Decimal {
	raw := getEnv(key, fallback)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("Invalid decimal for %s: %q, using %s", key, raw, fallback)
		d, _ = decimal.NewFromString(fallback)
	}
	return d
}
