package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Config holds everything the API reads from its environment. It is built
// once at startup and never mutated afterwards.
type Config struct {
	Env  string `env:"APP_ENV" env-default:"development"`
	Port string `env:"API_PORT" env-default:"8080"`

	StoreDriver         string        `env:"STORE_DRIVER" env-default:"mongo"`
	MongoURI            string        `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	MongoDatabase       string        `env:"MONGO_DATABASE" env-default:"gym"`
	MongoConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" env-default:"10s"`

	JWTSecret  string        `env:"JWT_SECRET"`
	TokenTTL   time.Duration `env:"JWT_TTL" env-default:"720h"`
	BcryptCost int           `env:"BCRYPT_COST" env-default:"10"`

	CORSOrigins      []string `env:"CORS_ORIGINS" env-default:"http://localhost:5173" env-separator:","`
	LogLevel         string   `env:"LOG_LEVEL" env-default:"info"`
	LogPretty        bool     `env:"LOG_PRETTY" env-default:"true"`
	AllowAdminSignup bool     `env:"ALLOW_ADMIN_SIGNUP" env-default:"false"`
	NotifyWebhookURL string   `env:"NOTIFY_WEBHOOK_URL"`

	AdminUsername string `env:"ADMIN_USERNAME" env-default:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// Load reads an optional .env file and then the process environment.
// It reports whether a .env file was found so the caller can log it.
func Load() (*Config, bool, error) {
	dotenv := godotenv.Load() == nil

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, dotenv, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, dotenv, err
	}
	return &cfg, dotenv, nil
}

// Validate checks the values cleanenv cannot express with tags.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("config: JWT_SECRET is not set")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: JWT_TTL must be positive, got %s", c.TokenTTL)
	}
	switch c.StoreDriver {
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("config: BCRYPT_COST out of range: %d", c.BcryptCost)
	}
	return nil
}

func (c *Config) Production() bool {
	return c.Env == "production"
}
