package config

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceHost string
	ServicePort int
	JWT         JWTConfig
	Minio       MinioConfig
	Seed        SeedConfig
}

type JWTConfig struct {
	Secret        string
	Issuer        string
	Audience      string
	ExpiresIn     time.Duration
	SigningMethod jwt.SigningMethod
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type SeedConfig struct {
	AdminPassword    string
	ProducerPassword string
}

const (
	envJWTSecret    = "JWT_SECRET"
	envMinioHost    = "MINIO_ENDPOINT"
	envMinioAccess  = "MINIO_ACCESS_KEY"
	envMinioSecret  = "MINIO_SECRET_KEY"
	envSeedAdminPwd = "SEED_ADMIN_PASSWORD"
	envSeedProdPwd  = "SEED_PRODUCER_PASSWORD"
)

func NewConfig() (*Config, error) {
	var err error

	configName := "config"
	_ = godotenv.Load()
	if os.Getenv("CONFIG_NAME") != "" {
		configName = os.Getenv("CONFIG_NAME")
	}

	viper.SetConfigName(configName)
	viper.SetConfigType("toml")
	viper.AddConfigPath("config")
	viper.AddConfigPath(".")

	err = viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = viper.Unmarshal(cfg)
	if err != nil {
		return nil, err
	}

	// JWT: секрет из env, параметры токена фиксированные (HS256, 1 час)
	cfg.JWT.Secret = os.Getenv(envJWTSecret)
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "dev-secret-change-me"
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "food-catalog"
	}
	if cfg.JWT.Audience == "" {
		cfg.JWT.Audience = "food-catalog-client"
	}
	cfg.JWT.ExpiresIn = time.Hour
	cfg.JWT.SigningMethod = jwt.SigningMethodHS256

	// MinIO конфигурация из env (дефолты для локального minio)
	if v := os.Getenv(envMinioHost); v != "" {
		cfg.Minio.Endpoint = v
	}
	if cfg.Minio.Endpoint == "" {
		cfg.Minio.Endpoint = "localhost:9000"
	}
	cfg.Minio.AccessKey = os.Getenv(envMinioAccess)
	cfg.Minio.SecretKey = os.Getenv(envMinioSecret)
	if cfg.Minio.Bucket == "" {
		cfg.Minio.Bucket = "product-images"
	}

	// Пароли сидируемых аккаунтов
	cfg.Seed.AdminPassword = os.Getenv(envSeedAdminPwd)
	if cfg.Seed.AdminPassword == "" {
		cfg.Seed.AdminPassword = "Admin123!"
	}
	cfg.Seed.ProducerPassword = os.Getenv(envSeedProdPwd)
	if cfg.Seed.ProducerPassword == "" {
		cfg.Seed.ProducerPassword = "Producer123!"
	}

	log.Info("config parsed")

	return cfg, nil
}
