package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_ADDR" env-default:":8080"`
}

// StoreAPI points at the hosted commerce backend that owns the product data.
type StoreAPI struct {
	BaseURL string        `yaml:"STORE_API_URL" env:"STORE_API_URL" env-required:"true"`
	APIKey  string        `yaml:"STORE_API_KEY" env:"STORE_API_KEY" env-default:""`
	Timeout time.Duration `yaml:"STORE_API_TIMEOUT" env:"STORE_API_TIMEOUT" env-default:"10s"`
}

type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER" env-default:""`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type Stripe struct {
	APIKey        string `yaml:"STRIPE_API_KEY" env:"STRIPE_API_KEY" env-default:""`
	WebhookSecret string `yaml:"STRIPE_WEBHOOK_SECRET" env:"STRIPE_WEBHOOK_SECRET" env-default:""`
}

// CatalogCache controls the stale-while-revalidate windows of the catalog
// query layer. List results churn faster than details, hence the two TTLs.
type CatalogCache struct {
	ListTTL    time.Duration `yaml:"LIST_TTL" env:"CATALOG_LIST_TTL" env-default:"60s"`
	DetailTTL  time.Duration `yaml:"DETAIL_TTL" env:"CATALOG_DETAIL_TTL" env-default:"5m"`
	MaxRetries uint64        `yaml:"MAX_RETRIES" env:"CATALOG_MAX_RETRIES" env-default:"3"`
	CartTTL    time.Duration `yaml:"CART_TTL" env:"CART_TTL" env-default:"72h"`
}

type Locales struct {
	Default   string   `yaml:"default" env:"LOCALE_DEFAULT" env-default:"en"`
	Supported []string `yaml:"supported" env:"LOCALE_SUPPORTED" env-default:"en,fr,de"`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-required:"true"`
	HTTPServer   `yaml:"http_server"`
	StoreAPI     StoreAPI     `yaml:"store_api"`
	RedisConnect RedisConnect `yaml:"redis"`
	Stripe       Stripe       `yaml:"stripe"`
	CatalogCache CatalogCache `yaml:"catalog_cache"`
	Locales      Locales      `yaml:"locales"`
	Security     Security     `yaml:"security"`
}

type Security struct {
	JWTKey string `yaml:"JWT_KEY" env:"JWT_KEY" env-required:"true"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "gets the config flag value")

		flag.Parse()

		configPath = *flags

		if configPath == "" {
			log.Fatal("Config path is not set")
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config

	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		log.Fatalf("can not read config file: %s", err.Error())
	}

	return &cfg
}

func (r *RedisConnect) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s:%s/%d",
		r.Username, r.Password, r.Host, r.Port, r.DB)
}
