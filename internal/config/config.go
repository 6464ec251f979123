package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr         string
	DBDSN        string
	LogFile      string
	JWTSecret    string
	AllowOrigins string

	// SMTP settings for outbound order mail; dispatch is skipped when
	// SMTPAddr is empty.
	SMTPAddr   string
	SMTPFrom   string
	BakerEmail string
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Addr:         getenv("ADDR", ":8080"),
		DBDSN:        getenv("DB_DSN", "sugarstudio.db"),
		LogFile:      getenv("LOG_FILE", ""),
		JWTSecret:    getenv("JWT_SECRET", "dev-secret-change-in-production"),
		AllowOrigins: getenv("ALLOW_ORIGINS", "*"),
		SMTPAddr:     getenv("SMTP_ADDR", ""),
		SMTPFrom:     getenv("SMTP_FROM", "orders@sugarstudio.test"),
		BakerEmail:   getenv("BAKER_EMAIL", ""),
	}
	log.Printf("[config] ADDR=%s DB_DSN=%s LOG_FILE=%s SMTP=%v", cfg.Addr, cfg.DBDSN, cfg.LogFile, cfg.SMTPAddr != "")
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
