package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"vidhub/internal/models"
)

type Config struct {
	APP_ADDR        string
	DB_HOST         string
	DB_PORT         string
	DB_USER         string
	DB_PASSWORD     string
	DB_NAME         string
	ACCESS_SECRET   string
	REFRESH_SECRET  string
	ACCESS_TTL      time.Duration
	REFRESH_TTL     time.Duration
	CORS_ORIGIN     string
	S3_USER         string
	S3_PASSWORD     string
	S3_BUCKET       string
	S3_REGION       string
	S3_ENDPOINT     string
	S3_PUBLIC_URL   string
	KAFKA_ADDRESS   string
	ES_URL          string
	ES_USER         string
	ES_PASSWORD     string
	LOG_LEVEL       string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		APP_ADDR:       getDefault("APP_ADDR", ":8080"),
		DB_HOST:        os.Getenv("DB_HOST"),
		DB_PORT:        os.Getenv("DB_PORT"),
		DB_USER:        os.Getenv("DB_USER"),
		DB_PASSWORD:    os.Getenv("DB_PASSWORD"),
		DB_NAME:        os.Getenv("DB_NAME"),
		ACCESS_SECRET:  os.Getenv("ACCESS_TOKEN_SECRET"),
		REFRESH_SECRET: os.Getenv("REFRESH_TOKEN_SECRET"),
		ACCESS_TTL:     getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		REFRESH_TTL:    getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		CORS_ORIGIN:    os.Getenv("CORS_ORIGIN"),
		S3_USER:        os.Getenv("S3_USER"),
		S3_PASSWORD:    os.Getenv("S3_PASSWORD"),
		S3_BUCKET:      getDefault("S3_BUCKET", "media"),
		S3_REGION:      getDefault("S3_REGION", "us-east-1"),
		S3_ENDPOINT:    os.Getenv("S3_ENDPOINT"),
		S3_PUBLIC_URL:  os.Getenv("S3_PUBLIC_URL"),
		KAFKA_ADDRESS:  os.Getenv("KAFKA_ADDRESS"),
		ES_URL:         os.Getenv("ES_URL"),
		ES_USER:        os.Getenv("ES_USER"),
		ES_PASSWORD:    os.Getenv("ES_PASSWORD"),
		LOG_LEVEL:      getDefault("LOG_LEVEL", "info"),
	}

	MustNonEmpty(config.ACCESS_SECRET, "ACCESS_TOKEN_SECRET")
	MustNonEmpty(config.REFRESH_SECRET, "REFRESH_TOKEN_SECRET")

	return config, nil
}

func getDefault(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func getDuration(name string, fallback time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Notice: invalid duration in %s (%q), using default %s", name, v, fallback)
		return fallback
	}
	return d
}

func InitDB(configuration *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		configuration.DB_USER,
		configuration.DB_PASSWORD,
		configuration.DB_HOST,
		configuration.DB_PORT,
		configuration.DB_NAME,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Video{},
		&models.WatchEvent{},
	); err != nil {
		return fmt.Errorf("db migrate: %w", err)
	}
	return nil
}
