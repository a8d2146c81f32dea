package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Log        LogConfig
	HTTP       HTTPConfig
	Automation AutomationConfig
	WhatsApp   WhatsAppConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// DSN returns the postgres connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL returns the postgres connection URL used by the migrator
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the host:port address
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret                 string
	RefreshSecret          string
	AccessTokenExpiration  time.Duration
	RefreshTokenExpiration time.Duration
	Issuer                 string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	CORSAllowOrigins []string
}

// AutomationConfig holds automation pipeline configuration
type AutomationConfig struct {
	Enabled           bool
	Workers           int
	QueueSize         int
	EvaluateInterval  time.Duration // how often the rule evaluator sweeps
	PixResendHour     int           // local hour of day for the PIX resend job
	PixResendCooldown time.Duration
	PixMinLedgerAge   time.Duration
}

// WhatsAppConfig holds outbound WhatsApp credentials
type WhatsAppConfig struct {
	Enabled       bool
	AccessToken   string
	APIVersion    string
	PhoneNumberID string
}

// Load loads configuration from TOML file and environment variables.
/// Priority (highest to lowest): OS_-prefixed env vars, config.toml,
// built-in defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("OS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; defaults plus env cover it
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "osworks")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "osworks")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.maxopenconns", 25)
	v.SetDefault("database.maxidleconns", 5)
	v.SetDefault("database.connmaxlifetime", 30)
	v.SetDefault("database.connmaxidletime", 10)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.accesstokenexpiration", 15*time.Minute)
	v.SetDefault("jwt.refreshtokenexpiration", 7*24*time.Hour)
	v.SetDefault("jwt.issuer", "osworks")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("http.readtimeout", 15*time.Second)
	v.SetDefault("http.writetimeout", 15*time.Second)
	v.SetDefault("http.idletimeout", 60*time.Second)
	v.SetDefault("http.corsalloworigins", []string{"*"})

	v.SetDefault("automation.enabled", true)
	v.SetDefault("automation.workers", 3)
	v.SetDefault("automation.queuesize", 256)
	v.SetDefault("automation.evaluateinterval", time.Hour)
	v.SetDefault("automation.pixresendhour", 9)
	v.SetDefault("automation.pixresendcooldown", 48*time.Hour)
	v.SetDefault("automation.pixminledgerage", 24*time.Hour)

	v.SetDefault("whatsapp.enabled", false)
	v.SetDefault("whatsapp.apiversion", "v24.0")
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.App.Env == "production" && c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required in production")
	}
	if c.Automation.Workers <= 0 {
		return fmt.Errorf("automation.workers must be positive")
	}
	if c.Automation.PixResendHour < 0 || c.Automation.PixResendHour > 23 {
		return fmt.Errorf("automation.pixresendhour must be between 0 and 23")
	}
	if c.WhatsApp.Enabled && (c.WhatsApp.AccessToken == "" || c.WhatsApp.PhoneNumberID == "") {
		return fmt.Errorf("whatsapp credentials are required when whatsapp.enabled is true")
	}
	return nil
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
