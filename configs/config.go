package configs

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	CatalogPort  string
	LoanPort     string
	IdentityPort string
	GatewayPort  string

	MongoURI string
	DBName   string

	JWTSecret string

	CatalogURL  string
	LoanURL     string
	IdentityURL string

	LoanTermDays int

	RateRPS      float64
	RateBurst    int
	RedisAddr    string
	StatsEnabled bool
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	loanTermDays := 14
	if val := os.Getenv("LOAN_TERM_DAYS"); val != "" {
		if _, err := fmt.Sscanf(val, "%d", &loanTermDays); err != nil {
			log.Fatalf("Invalid LOAN_TERM_DAYS: %v", err)
		}
	}

	rateRPS := 10.0
	if val := os.Getenv("RATE_RPS"); val != "" {
		if _, err := fmt.Sscanf(val, "%f", &rateRPS); err != nil {
			log.Fatalf("Invalid RATE_RPS: %v", err)
		}
	}

	rateBurst := 20
	if val := os.Getenv("RATE_BURST"); val != "" {
		if _, err := fmt.Sscanf(val, "%d", &rateBurst); err != nil {
			log.Fatalf("Invalid RATE_BURST: %v", err)
		}
	}

	return Config{
		CatalogPort:  getenvDefault("CATALOG_PORT", "8081"),
		LoanPort:     getenvDefault("LOAN_PORT", "8082"),
		IdentityPort: getenvDefault("IDENTITY_PORT", "8083"),
		GatewayPort:  getenvDefault("GATEWAY_PORT", "8080"),

		MongoURI: getenvDefault("MONGO_URI", "mongodb://localhost:27017"),
		DBName:   getenvDefault("DB_NAME", "libhub"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		CatalogURL:  getenvDefault("CATALOG_URL", "http://localhost:8081"),
		LoanURL:     getenvDefault("LOAN_URL", "http://localhost:8082"),
		IdentityURL: getenvDefault("IDENTITY_URL", "http://localhost:8083"),

		LoanTermDays: loanTermDays,

		RateRPS:      rateRPS,
		RateBurst:    rateBurst,
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		StatsEnabled: os.Getenv("STATS_ENABLED") == "true",
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
