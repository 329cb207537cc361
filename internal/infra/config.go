package infra

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config — корневая структура конфигурации консоли.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	GRPC       GRPCConfig       `mapstructure:"grpc"`
	Session    SessionConfig    `mapstructure:"session"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Logger     LoggerConfig     `mapstructure:"logger"`
}

// ServerConfig описывает настройки HTTP-сервера.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Лимит запросов к API (token bucket на весь процесс)
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

// MetricsConfig — отдельный listener для Prometheus. Пустой addr отключает.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// GRPCConfig — gRPC health check для оркестратора. Пустой addr отключает.
type GRPCConfig struct {
	Addr string `mapstructure:"addr"`
}

// SessionConfig настраивает подписанную cookie сессии браузера.
type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`
	CookieName string        `mapstructure:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl"`
	IdleTTL    time.Duration `mapstructure:"idle_ttl"` // через сколько простоя workspace выселяется
	Secure     bool          `mapstructure:"secure"`
}

// StorageConfig выбирает хранилище предпочтений (тема).
type StorageConfig struct {
	Driver   string         `mapstructure:"driver"` // memory, redis, postgres
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`

	// Circuit Breaker вокруг удаленного хранилища
	CBMaxRequests int           `mapstructure:"cb_max_requests"`
	CBInterval    time.Duration `mapstructure:"cb_interval"`
	CBTimeout     time.Duration `mapstructure:"cb_timeout"`
	ConnectTries  uint          `mapstructure:"connect_tries"`
}

// RedisConfig описывает подключение к Redis.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PostgresConfig описывает подключение к PostgreSQL.
type PostgresConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int    `mapstructure:"max_conns"`
}

// SimulationConfig — искусственные задержки, имитирующие работу бэкенда.
type SimulationConfig struct {
	ScanDelay     time.Duration `mapstructure:"scan_delay"`
	GenerateDelay time.Duration `mapstructure:"generate_delay"`
}

// LoggerConfig настраивает поведение zap логгера.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// LoadConfig инициализирует конфигурацию, объединяя значения из файла, .env и ENV.
// configFile может быть пустым — тогда ищем config.yaml в . и ./configs.
func LoadConfig(configFile string) (*Config, error) {
	// .env опционален: на проде переменные приходят из окружения
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	// SERVER_ADDR=:9000 перекроет server.addr
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Если файла нет — работаем на ENV и дефолтах
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет значения, которые нельзя исправить дефолтами.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory:
	case StorageRedis:
		if c.Storage.Redis.Addr == "" {
			return errors.New("config: storage.redis.addr is required for redis driver")
		}
	case StoragePostgres:
		if c.Storage.Postgres.URL == "" {
			return errors.New("config: storage.postgres.url is required for postgres driver")
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}

	if len(c.Session.Secret) < 16 {
		return errors.New("config: session.secret must be at least 16 bytes")
	}
	if c.Simulation.ScanDelay < 0 || c.Simulation.GenerateDelay < 0 {
		return errors.New("config: simulation delays must not be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.rate_limit", 50.0)
	v.SetDefault("server.rate_burst", 100)
	v.SetDefault("metrics.addr", ":9090")
	v.SetDefault("grpc.addr", ":50052")
	// Дефолтный секрет годится только для локального запуска
	v.SetDefault("session.secret", "intellibridge-dev-session-secret")
	v.SetDefault("session.cookie_name", "ib_session")
	v.SetDefault("session.ttl", 30*24*time.Hour)
	v.SetDefault("session.idle_ttl", 2*time.Hour)
	v.SetDefault("session.secure", false)
	v.SetDefault("storage.driver", StorageMemory)
	// Пустые дефолты нужны, чтобы AutomaticEnv видел ключи при Unmarshal
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.postgres.url", "")
	v.SetDefault("storage.postgres.max_conns", 10)
	v.SetDefault("storage.cb_max_requests", 3)
	v.SetDefault("storage.cb_interval", 5*time.Second)
	v.SetDefault("storage.cb_timeout", 30*time.Second)
	v.SetDefault("storage.connect_tries", 5)
	v.SetDefault("simulation.scan_delay", 3*time.Second)
	v.SetDefault("simulation.generate_delay", 0)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
}
