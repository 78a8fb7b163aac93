package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string
	Host   string
	Port   string

	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBAutoMigrate bool

	AdminAPIKey             string
	CallbackVerificationKey string
	PhoneCountryCode        string

	KafkaBrokers []string
	KafkaTopic   string
}

func getEnv(key, defaultVal string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal
	}
	return val
}

// Load reads .env when present and falls back to process environment.
func Load() *Config {
	_ = godotenv.Load()

	autoMigrate, _ := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "false"))

	var brokers []string
	for _, b := range strings.Split(getEnv("KAFKA_BROKERS", ""), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	return &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Host:   getEnv("HOST", "127.0.0.1"),
		Port:   getEnv("PORT", "3000"),

		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", ""),
		DBName:        getEnv("DB_NAME", "cashier"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		DBAutoMigrate: autoMigrate,

		AdminAPIKey:             getEnv("ADMIN_API_KEY", ""),
		CallbackVerificationKey: getEnv("CALLBACK_VERIFICATION_KEY", ""),
		PhoneCountryCode:        getEnv("PHONE_COUNTRY_CODE", "880"),

		KafkaBrokers: brokers,
		KafkaTopic:   getEnv("KAFKA_TOPIC", "cashier.ledger"),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
