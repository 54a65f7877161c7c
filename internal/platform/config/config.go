package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	id "donorhub/pkg/domain"
)

// Config is the root configuration for the donor lifecycle service.
type Config struct {
	Server   Server         `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Draw     DrawConfig     `mapstructure:"draw"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Lockout  LockoutConfig  `mapstructure:"lockout"`
	Log      LogConfig      `mapstructure:"log"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `mapstructure:"addr"`
	JWTSigningKey   string        `mapstructure:"jwt_signing_key"`
	JWTIssuer       string        `mapstructure:"jwt_issuer"`
	SessionTTL      time.Duration `mapstructure:"session_ttl"`
	AdminToken      string        `mapstructure:"admin_token"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig selects the Postgres backend. An empty URL keeps every store in memory.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

// RedisConfig configures the optional Redis client.
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// KafkaConfig configures the audit event publisher. No brokers means events stay in process.
type KafkaConfig struct {
	Brokers           []string      `mapstructure:"brokers"`
	Topic             string        `mapstructure:"topic"`
	Partitions        int32         `mapstructure:"partitions"`
	ReplicationFactor int16         `mapstructure:"replication_factor"`
	OutboxInterval    time.Duration `mapstructure:"outbox_interval"`
}

// DrawConfig configures the recurring lottery draw.
type DrawConfig struct {
	Period        time.Duration `mapstructure:"period"`
	Threshold     int           `mapstructure:"threshold"`
	CheckSchedule string        `mapstructure:"check_schedule"`
}

// LedgerConfig lists blood types put on the shortage board at boot.
type LedgerConfig struct {
	ShortageTypes []string `mapstructure:"shortage_types"`
}

// LockoutConfig bounds failed logins per email and client address. Zero
// attempts disables the lockout.
type LockoutConfig struct {
	Attempts     int           `mapstructure:"attempts"`
	Window       time.Duration `mapstructure:"window"`
	LockDuration time.Duration `mapstructure:"lock_duration"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

const devSigningKey = "dev-secret-key-change-in-production"

// Load reads configuration from an optional config.yaml and DONORHUB_* environment variables.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DONORHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("database.url", "DONORHUB_DATABASE_URL", "DATABASE_URL")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Kafka.Brokers = splitList(strings.Join(cfg.Kafka.Brokers, ","))
	cfg.Ledger.ShortageTypes = splitList(strings.Join(cfg.Ledger.ShortageTypes, ","))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.jwt_signing_key", devSigningKey)
	v.SetDefault("server.jwt_issuer", "donorhub")
	v.SetDefault("server.session_ttl", "12h")
	v.SetDefault("server.admin_token", "")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.ping_timeout", "3s")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "donorhub.audit")
	v.SetDefault("kafka.partitions", 3)
	v.SetDefault("kafka.replication_factor", 1)
	v.SetDefault("kafka.outbox_interval", "1s")
	v.SetDefault("ledger.shortage_types", []string{})
	v.SetDefault("lockout.attempts", 5)
	v.SetDefault("lockout.window", "15m")
	v.SetDefault("lockout.lock_duration", "15m")
	v.SetDefault("draw.period", "720h")
	v.SetDefault("draw.threshold", 500)
	v.SetDefault("draw.check_schedule", "0 * * * * *")
	v.SetDefault("log.level", "info")
}

// Validate checks cross-field constraints after decoding.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.SessionTTL <= 0 {
		return errors.New("server.session_ttl must be greater than 0")
	}
	if c.Draw.Period <= 0 {
		return errors.New("draw.period must be greater than 0")
	}
	if c.Draw.Threshold < 0 {
		return errors.New("draw.threshold must not be negative")
	}
	if c.Lockout.Attempts > 0 && (c.Lockout.Window <= 0 || c.Lockout.LockDuration <= 0) {
		return errors.New("lockout.window and lockout.lock_duration must be greater than 0")
	}
	if c.Database.URL != "" && c.Database.MaxOpenConns <= 0 {
		return errors.New("database.max_open_conns must be greater than 0")
	}
	if len(c.Kafka.Brokers) > 0 && strings.TrimSpace(c.Kafka.Topic) == "" {
		return errors.New("kafka.topic is required when brokers are set")
	}
	if _, err := c.ShortageSeeds(); err != nil {
		return err
	}
	return nil
}

// ShortageSeeds parses Ledger.ShortageTypes.
func (c Config) ShortageSeeds() ([]id.BloodType, error) {
	out := make([]id.BloodType, 0, len(c.Ledger.ShortageTypes))
	for _, raw := range c.Ledger.ShortageTypes {
		bt, err := id.ParseBloodType(raw)
		if err != nil {
			return nil, fmt.Errorf("ledger.shortage_types: %q: %w", raw, err)
		}
		out = append(out, bt)
	}
	return out, nil
}

// UsesDevSigningKey reports whether the JWT key was left at its development default.
func (c Config) UsesDevSigningKey() bool {
	return c.Server.JWTSigningKey == devSigningKey
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
