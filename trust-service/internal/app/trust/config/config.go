package config

import (
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	MongoDB   MongoDBConfig
	Kafka     KafkaConfig
	JWT       JWTConfig
	AI        AIConfig
	Reconcile ReconcileConfig
}

type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8085)
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type MongoDBConfig struct {
	URI      string // URI подключения к MongoDB
	Database string // Имя базы данных с отзывами
}

type KafkaConfig struct {
	Brokers  []string // Список брокеров Kafka (формат: host:port)
	Topic    string   // Топик для событий REVIEW_CREATED / VOTE_APPLIED / BADGE_UNLOCKED
	GroupID  string   // Группа consumer'а предрасчета достоверности
	MinBytes int
	MaxBytes int
}

type JWTConfig struct {
	Secret string // Секретный ключ для проверки JWT токенов провайдера идентификации
}

// AIConfig настройки внешней модели анализа текста
type AIConfig struct {
	URL                  string
	APIKey               string
	Model                string
	Timeout              time.Duration // Таймаут одного вызова модели
	CredibilityMaxTokens int
	SummaryMaxTokens     int
}

type ReconcileConfig struct {
	Schedule string // Cron-расписание полной сверки счетчиков
	Enabled  bool
}

// Load читает конфигурацию из окружения. Файл .env подхватывается если он есть.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8085"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "trust_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "trust_service"),
		},
		Kafka: KafkaConfig{
			Brokers:  strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:    getEnv("KAFKA_TOPIC", "trust_events"),
			GroupID:  getEnv("KAFKA_GROUP_ID", "trust-enrichment"),
			MinBytes: getEnvInt("KAFKA_MIN_BYTES", 1),
			MaxBytes: getEnvInt("KAFKA_MAX_BYTES", 10e6),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		},
		AI: AIConfig{
			URL:                  getEnv("AI_API_URL", "https://api.anthropic.com/v1/messages"),
			APIKey:               getEnv("AI_API_KEY", ""),
			Model:                getEnv("AI_MODEL", "claude-sonnet-4-20250514"),
			Timeout:              getEnvDuration("AI_TIMEOUT", 20*time.Second),
			CredibilityMaxTokens: getEnvInt("AI_CREDIBILITY_MAX_TOKENS", 150),
			SummaryMaxTokens:     getEnvInt("AI_SUMMARY_MAX_TOKENS", 200),
		},
		Reconcile: ReconcileConfig{
			Schedule: getEnv("RECONCILE_SCHEDULE", "0 */6 * * *"),
			Enabled:  getEnvBool("RECONCILE_ENABLED", true),
		},
	}, nil
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// DSN строка подключения для gorm
func (c *DatabaseConfig) DSN() string {
	return "host=" + dsnValue(c.Host) + " user=" + dsnValue(c.User) + " password=" + dsnValue(c.Password) +
		" dbname=" + dsnValue(c.DBName) + " port=" + dsnValue(c.Port) + " sslmode=" + dsnValue(c.SSLMode)
}

// URL строка подключения для pgxpool, логин и пароль экранируются
func (c *DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// dsnValue значение в формате key=value libpq: пробелы, кавычки и пустая строка в кавычках
func dsnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v) + "'"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
