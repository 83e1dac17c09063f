package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	APIPort        int      `yaml:"apiPort"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
	Database       struct {
		Type     string `yaml:"type"` // "sqlite" or "postgres"
		Path     string `yaml:"path"` // sqlite only
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		Name     string `yaml:"name"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		SSLMode  string `yaml:"sslMode"`
		MaxConns int    `yaml:"maxConns"`
		MaxIdle  int    `yaml:"maxIdle"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret     string `yaml:"jwtSecret"`
		TokenTTLHours int    `yaml:"tokenTTLHours"`
	} `yaml:"auth"`
	Payments struct {
		ProviderURL          string `yaml:"providerUrl"`
		APIKey               string `yaml:"apiKey"`
		Currency             string `yaml:"currency"`
		CheckIntervalSeconds int    `yaml:"checkIntervalSeconds"`
		OrderTTLHours        int    `yaml:"orderTTLHours"`
	} `yaml:"payments"`
	Storage struct {
		Endpoint        string `yaml:"endpoint"`
		Region          string `yaml:"region"`
		Bucket          string `yaml:"bucket"`
		AccessKeyID     string `yaml:"accessKeyId"`
		SecretAccessKey string `yaml:"secretAccessKey"`
	} `yaml:"storage"`
}

// LoadConfig loads the configuration from file and environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("EVENTLY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// Missing file is fine, env vars and defaults still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: could not read config file: %s. Using defaults or environment variables.", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	log.Printf("Configuration loaded: port=%d db=%s", cfg.APIPort, cfg.Database.Type)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.APIPort == 0 {
		cfg.APIPort = 8081
		log.Println("apiPort not specified, using default 8081")
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "/data/evently.db"
		log.Println("database path not specified, using default /data/evently.db")
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = "evently-dev-secret"
		log.Println("WARNING: auth.jwtSecret not set, using insecure development default")
	}
	if cfg.Auth.TokenTTLHours == 0 {
		cfg.Auth.TokenTTLHours = 24
	}
	if cfg.Payments.Currency == "" {
		cfg.Payments.Currency = "USD"
	}
	if cfg.Payments.CheckIntervalSeconds == 0 {
		cfg.Payments.CheckIntervalSeconds = 60
	}
	if cfg.Payments.OrderTTLHours == 0 {
		cfg.Payments.OrderTTLHours = 24
	}
}
