package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port                 string   `mapstructure:"PORT"`
	Env                  string   `mapstructure:"ENV"`
	LogLevel             string   `mapstructure:"LOG_LEVEL"`
	DatabaseURL          string   `mapstructure:"DATABASE_URL"`
	DBMaxConns           int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns           int32    `mapstructure:"DB_MIN_CONNS"`
	APIKey               string   `mapstructure:"API_KEY"`
	JWTSecret            string   `mapstructure:"JWT_SECRET_KEY"`
	BasePath             string   `mapstructure:"BASE_PATH"`
	PublicBaseURL        string   `mapstructure:"PUBLIC_BASE_URL"`
	CORSOrigins          []string `mapstructure:"CORS_ORIGINS"`
	TokenVerifySignature bool     `mapstructure:"TOKEN_VERIFY_SIGNATURE"`
	BcryptCost           int      `mapstructure:"BCRYPT_COST"`
}

// devBasePath is where the API is mounted when running locally behind the
// legacy Apache layout.
const devBasePath = "/api_slim4"

// devJWTSecret is only accepted in development.
const devJWTSecret = "dev-only-jwt-secret-change-me"

var keys = []string{
	"PORT",
	"ENV",
	"LOG_LEVEL",
	"DATABASE_URL",
	"DB_MAX_CONNS",
	"DB_MIN_CONNS",
	"API_KEY",
	"JWT_SECRET_KEY",
	"BASE_PATH",
	"PUBLIC_BASE_URL",
	"CORS_ORIGINS",
	"TOKEN_VERIFY_SIGNATURE",
	"BCRYPT_COST",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("TOKEN_VERIFY_SIGNATURE", false)
	v.SetDefault("BCRYPT_COST", 10)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.CORSOrigins) == 1 && strings.Contains(cfg.CORSOrigins[0], ",") {
		cfg.CORSOrigins = strings.Split(cfg.CORSOrigins[0], ",")
	}
	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if !v.IsSet("BASE_PATH") && cfg.IsDev() {
		cfg.BasePath = devBasePath
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" && cfg.IsDev() {
		log.Println("WARNING: JWT_SECRET_KEY is not set, using the development default")
		cfg.JWTSecret = devJWTSecret
	}

	if cfg.APIKey == "" {
		log.Println("WARNING: API_KEY is not set, every POST /login will be rejected")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development
// a real JWT signing secret is required, production also needs API_KEY, and
// the bcrypt cost must be within the range the library accepts.
func (c *Config) Validate() error {
	if !c.IsDev() {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET_KEY is required when ENV=%q", c.Env)
		}
		if c.JWTSecret == devJWTSecret {
			return fmt.Errorf("JWT_SECRET_KEY must not use the development default when ENV=%q", c.Env)
		}
	}
	if c.IsProduction() && c.APIKey == "" {
		return fmt.Errorf("API_KEY is required when ENV=%q", c.Env)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) must not exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("BASE_PATH must start with '/', got %q", c.BasePath)
	}
	return nil
}
