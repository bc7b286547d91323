package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Режимы подключения мастера к системе бронирования
const (
	BackendEmbedded = "embedded"
	BackendRemote   = "remote"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Redis    RedisConfig    `toml:"redis"`
	Backend  BackendConfig  `toml:"backend"`
	Wizard   WizardConfig   `toml:"wizard"`
	CORS     CORSConfig     `toml:"cors"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig настройки Redis. Без Redis сессии хранятся в памяти, а каталог не кэшируется.
type RedisConfig struct {
	Enabled         bool   `toml:"enabled"`
	Addr            string `toml:"addr"`
	Password        string `toml:"password"`
	DB              int    `toml:"db"`
	SessionPrefix   string `toml:"session_prefix"`
	CatalogCacheTTL int    `toml:"catalog_cache_ttl"` // секунды
}

// BackendConfig источник каталога, слотов и бронирований
type BackendConfig struct {
	Mode    string `toml:"mode"` // embedded | remote
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// WizardConfig настройки сессий мастера
type WizardConfig struct {
	SessionTTL      int      `toml:"session_ttl"`      // секунды
	CleanupInterval int      `toml:"cleanup_interval"` // секунды
	SubmitTimeout   int      `toml:"submit_timeout"` // секунды, после них зависшая отправка считается неудачной
	RateLimitRPS    float64  `toml:"rate_limit_rps"`
	RateLimitBurst  int      `toml:"rate_limit_burst"`
	TrustedProxies  []string `toml:"trusted_proxies"` // IP или CIDR; только им доверяем X-Forwarded-For
}

// CORSConfig разрешенные origin
type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию и переменные окружения
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 10)
	setDefault(&c.Server.WriteTimeout, 10)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 15)

	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "smc-booking-wizard"
	}

	if c.Redis.SessionPrefix == "" {
		c.Redis.SessionPrefix = "wizard:session:"
	}
	setDefault(&c.Redis.CatalogCacheTTL, 60)

	if c.Backend.Mode == "" {
		c.Backend.Mode = BackendEmbedded
	}
	setDefault(&c.Backend.Timeout, 5)

	setDefault(&c.Wizard.SessionTTL, 1800)
	setDefault(&c.Wizard.CleanupInterval, 60)
	setDefault(&c.Wizard.SubmitTimeout, 60)
	setDefault(&c.Wizard.RateLimitBurst, 20)
	if c.Wizard.RateLimitRPS == 0 {
		c.Wizard.RateLimitRPS = 5
	}

	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port must be in 1..65535, got %d", c.Server.HTTPPort))
	}

	switch c.Backend.Mode {
	case BackendEmbedded:
		if c.Database.Host == "" || c.Database.DBName == "" {
			errs = append(errs, errors.New("database.host and database.dbname are required for embedded backend"))
		}
	case BackendRemote:
		if c.Backend.URL == "" {
			errs = append(errs, errors.New("backend.url is required for remote backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("backend.mode must be %q or %q, got %q", BackendEmbedded, BackendRemote, c.Backend.Mode))
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required when redis is enabled"))
	}

	if c.Wizard.RateLimitRPS < 0 || c.Wizard.RateLimitBurst < 0 {
		errs = append(errs, errors.New("wizard rate limit must not be negative"))
	}

	for _, proxy := range c.Wizard.TrustedProxies {
		if _, _, err := net.ParseCIDR(proxy); err != nil && net.ParseIP(proxy) == nil {
			errs = append(errs, fmt.Errorf("wizard.trusted_proxies: %q is neither an IP nor a CIDR", proxy))
		}
	}

	if !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path must start with '/', got %q", c.Metrics.Path))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func setDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}
