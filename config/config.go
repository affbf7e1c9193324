package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverFile     = "file"
	StoreDriverPostgres = "postgres"
)

type Config struct {
	Port    string
	GinMode string
	Env     string

	LogLevel string

	StoreDriver string
	DataDir     string
	Database    DatabaseConfig

	JWTSecret     string
	JWTExpiration time.Duration

	Generator GeneratorConfig

	Admin AdminConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type GeneratorConfig struct {
	APIKey              string
	BaseURL             string
	Model               string
	Timeout             time.Duration
	DraftTemperature    float64
	RevisionTemperature float64
	Municipality        string
}

// AdminConfig is the account created on first start.
type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", StoreDriverFile)
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "gabinete")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("GROQ_API_KEY", "")
	v.SetDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1")
	v.SetDefault("GROQ_MODEL", "llama-3.3-70b-versatile")
	v.SetDefault("GENERATOR_TIMEOUT", "120s")
	v.SetDefault("DRAFT_TEMPERATURE", 0.3)
	v.SetDefault("REVISION_TEMPERATURE", 0.5)
	v.SetDefault("MUNICIPALITY", "Espumoso/RS")
	v.SetDefault("ADMIN_NAME", "Administrator")
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")
}

// Load reads .env files (if any) and the process environment.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:        v.GetString("PORT"),
		GinMode:     v.GetString("GIN_MODE"),
		Env:         v.GetString("ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		StoreDriver: strings.ToLower(v.GetString("STORE_DRIVER")),
		DataDir:     v.GetString("DATA_DIR"),
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWTSecret:     v.GetString("JWT_SECRET"),
		JWTExpiration: v.GetDuration("JWT_EXPIRATION"),
		Generator: GeneratorConfig{
			APIKey:              v.GetString("GROQ_API_KEY"),
			BaseURL:             v.GetString("GROQ_BASE_URL"),
			Model:               v.GetString("GROQ_MODEL"),
			Timeout:             v.GetDuration("GENERATOR_TIMEOUT"),
			DraftTemperature:    v.GetFloat64("DRAFT_TEMPERATURE"),
			RevisionTemperature: v.GetFloat64("REVISION_TEMPERATURE"),
			Municipality:        v.GetString("MUNICIPALITY"),
		},
		Admin: AdminConfig{
			Name:     v.GetString("ADMIN_NAME"),
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
	}

	if cfg.StoreDriver != StoreDriverFile && cfg.StoreDriver != StoreDriverPostgres {
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	if cfg.JWTExpiration <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRATION must be positive")
	}
	if cfg.Generator.Timeout < 0 {
		return nil, fmt.Errorf("GENERATOR_TIMEOUT must not be negative")
	}

	SetJWT(cfg.JWTSecret, cfg.JWTExpiration)
	return cfg, nil
}
