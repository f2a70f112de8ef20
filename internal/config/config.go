package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	Database    Database
	Session     Session

	Actions  Actions  `envPrefix:"ACTIONS_"`
	Catalog  Catalog  `envPrefix:"CATALOG_"`
	Purchase Purchase `envPrefix:"PURCHASE_"`
	Webhook  Webhook  `envPrefix:"WEBHOOK_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

type Database struct {
	Driver string `env:"DATABASE_DRIVER" envDefault:"sqlite"` // sqlite, mysql
	URL    string `env:"DATABASE_URL" envDefault:"fulfillment.db"`
}

type Session struct {
	Store         string        `env:"SESSION_STORE" envDefault:"database"` // database, redis
	TTL           time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
}

type Actions struct {
	BaseApiURL         string `env:"BASE_API_URL" envDefault:"https://actions.googleapis.com"`
	PackageName        string `env:"PACKAGE_NAME"`
	ServiceAccountFile string `env:"SERVICE_ACCOUNT_FILE"`
	ServiceAccountJSON string `env:"SERVICE_ACCOUNT_JSON"`
	// only for local development against a stub catalog
	AccessToken string `env:"ACCESS_TOKEN"`
}

// ServiceAccount returns the raw service account key, preferring the inline
// JSON over the file path.
func (a Actions) ServiceAccount() ([]byte, error) {
	if a.ServiceAccountJSON != "" {
		return []byte(a.ServiceAccountJSON), nil
	}
	if a.ServiceAccountFile == "" {
		return nil, nil
	}
	b, err := os.ReadFile(a.ServiceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return b, nil
}

type Catalog struct {
	InAppIDs        []string `env:"IN_APP_IDS" envSeparator:"," envDefault:"premium_car,gas"`
	SubscriptionIDs []string `env:"SUBSCRIPTION_IDS" envSeparator:"," envDefault:"gold_monthly,gold_yearly"`
	ConsumableIDs   []string `env:"CONSUMABLE_IDS" envSeparator:"," envDefault:"gas"`
}

type Purchase struct {
	// EagerReconsume consumes an owned consumable directly on selection
	// instead of sending the user through the platform purchase UI.
	EagerReconsume  bool `env:"EAGER_RECONSUME" envDefault:"true"`
	ContextLifespan int  `env:"CONTEXT_LIFESPAN" envDefault:"5"`
}

type Webhook struct {
	JWTSecret   string `env:"JWT_SECRET"`
	JWTAudience string `env:"JWT_AUDIENCE"`
}
