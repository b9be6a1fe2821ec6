package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPPort string `yaml:"http_port"`
	Debug    bool   `yaml:"debug"`
	LogLevel string `yaml:"log_level"`

	DBDriver    string `yaml:"db_driver"` // postgres | sqlite
	DatabaseURL string `yaml:"database_url"`
	SQLitePath  string `yaml:"sqlite_path"`

	RedisAddr string        `yaml:"redis_addr"` // vacío = caché en memoria
	CacheTTL  time.Duration `yaml:"cache_ttl"`

	UseKafka     bool     `yaml:"use_kafka"`
	KafkaBrokers []string `yaml:"kafka_brokers"`
	KafkaGroupID string   `yaml:"kafka_group_id"`

	OutboxPeriod time.Duration `yaml:"outbox_period"`
	OutboxLimit  int           `yaml:"outbox_limit"`

	MongoURI string `yaml:"mongo_uri"` // vacío = sin archivo de eventos
	MongoDB  string `yaml:"mongo_db"`

	ClickHouseAddr string `yaml:"clickhouse_addr"` // vacío = sin analítica
	ClickHouseDB   string `yaml:"clickhouse_db"`

	ListDefaultLimit int `yaml:"list_default_limit"`
}

func defaults() *Config {
	return &Config{
		HTTPPort:         "8080",
		LogLevel:         "info",
		DBDriver:         "sqlite",
		SQLitePath:       "./wishlab.db",
		CacheTTL:         5 * time.Minute,
		KafkaBrokers:     []string{"localhost:9092"},
		KafkaGroupID:     "wishlab",
		OutboxPeriod:     1 * time.Second,
		OutboxLimit:      10,
		MongoDB:          "wishlab",
		ClickHouseDB:     "default",
		ListDefaultLimit: 100,
	}
}

// LoadConfig carga .env (si existe), el YAML de CONFIG_FILE (si se indica)
// y por último las variables de entorno, que siempre tienen prioridad.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // .env es opcional

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.HTTPPort = getEnv("HTTP_PORT", cfg.HTTPPort)
	cfg.Debug = getEnvBool("DEBUG", cfg.Debug)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.CacheTTL = getEnvDuration("CACHE_TTL", cfg.CacheTTL)
	cfg.UseKafka = getEnvBool("USE_KAFKA", cfg.UseKafka)
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	cfg.KafkaGroupID = getEnv("KAFKA_GROUP_ID", cfg.KafkaGroupID)
	cfg.OutboxPeriod = getEnvDuration("OUTBOX_PERIOD", cfg.OutboxPeriod)
	cfg.OutboxLimit = getEnvInt("OUTBOX_LIMIT", cfg.OutboxLimit)
	cfg.MongoURI = getEnv("MONGO_URI", cfg.MongoURI)
	cfg.MongoDB = getEnv("MONGO_DB", cfg.MongoDB)
	cfg.ClickHouseAddr = getEnv("CLICKHOUSE_ADDR", cfg.ClickHouseAddr)
	cfg.ClickHouseDB = getEnv("CLICKHOUSE_DB", cfg.ClickHouseDB)
	cfg.ListDefaultLimit = getEnvInt("LIST_DEFAULT_LIMIT", cfg.ListDefaultLimit)

	if cfg.DBDriver == "postgres" && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
