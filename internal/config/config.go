package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Environment    string `mapstructure:"ENV"`
	Host           string `mapstructure:"HOST"`
	Port           string `mapstructure:"PORT"`
	ModuleName     string `mapstructure:"MODULE_NAME"`
	DBHost         string `mapstructure:"DB_HOST"`
	DBPort         string `mapstructure:"DB_PORT"`
	DBName         string `mapstructure:"DB_NAME"`
	DBUser         string `mapstructure:"DB_USER"`
	DBPassword     string `mapstructure:"DB_PWD"`
	IsTest         bool   `mapstructure:"IS_TEST"`
	TestDSN        string `mapstructure:"DATABASE_URL"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	TelegramToken  string `mapstructure:"TELEGRAM_TOKEN"`
	MetricsEnabled bool   `mapstructure:"METRICS_ENABLED"`
}

var keys = []string{
	"ENV", "HOST", "PORT", "MODULE_NAME",
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PWD",
	"IS_TEST", "DATABASE_URL", "LOG_LEVEL", "TELEGRAM_TOKEN", "METRICS_ENABLED",
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	v := viper.New()
	v.SetDefault("ENV", "development")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", "80")
	v.SetDefault("MODULE_NAME", "pesopolis")
	v.SetDefault("IS_TEST", false)
	v.SetDefault("DATABASE_URL", "file:pesopolis.db")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("METRICS_ENABLED", true)

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.IsTest {
		return nil
	}
	// Проверяем обязательные поля для postgres
	var missing []string
	for key, value := range map[string]string{
		"DB_HOST": c.DBHost,
		"DB_NAME": c.DBName,
		"DB_USER": c.DBUser,
	} {
		if value == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%s required but not set", strings.Join(missing, ", "))
	}
	return nil
}

// PostgresDSN собирает строку подключения из DB_* переменных
func (c *Config) PostgresDSN() string {
	port := c.DBPort
	if port == "" {
		port = "5432"
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   net.JoinHostPort(c.DBHost, port),
		Path:   "/" + c.DBName,
	}
	return u.String()
}

// Addr адрес HTTP сервера
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}
