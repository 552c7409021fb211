package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Billfold"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host           string `envconfig:"DB_HOST" default:"localhost"`
		Port           int    `envconfig:"DB_PORT" default:"5432"`
		User           string `envconfig:"DB_USER" default:"postgres"`
		Password       string `envconfig:"DB_PASSWORD" default:""`
		Name           string `envconfig:"DB_NAME" default:"billfold"`
		MigrationsPath string `envconfig:"DB_MIGRATIONS_PATH" default:"migrations"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	}

	Auth struct {
		JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
	}

	Bank struct {
		ClientID string `envconfig:"BANK_CLIENT_ID"`
		Secret   string `envconfig:"BANK_SECRET"`
		BaseURL  string `envconfig:"BANK_BASE_URL" default:"https://sandbox.plaid.com"`
	}

	TUI struct {
		// Single-user mode for the terminal client; the API side is
		// always token scoped.
		UserID string `envconfig:"TUI_USER_ID"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
