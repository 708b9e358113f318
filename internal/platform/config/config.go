// Package config loads process configuration. An optional YAML file named by
// ZOOPITO_CONFIG provides the base; environment variables override it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full process configuration.
type Config struct {
	Server   Server          `yaml:"server"`
	Log      LogConfig       `yaml:"log"`
	Postgres PostgresConfig  `yaml:"postgres"`
	Redis    RedisConfig     `yaml:"redis"`
	Kafka    KafkaConfig     `yaml:"kafka"`
	Reminder ReminderConfig  `yaml:"reminder"`
	Limits   RateLimitConfig `yaml:"rate_limit"`
}

// Server captures HTTP server level configuration. BootstrapAdmin is the email
// of an ADMIN account ensured at startup.
type Server struct {
	Addr           string        `yaml:"addr"`
	JWTSigningKey  string        `yaml:"jwt_signing_key"`
	JWTIssuer      string        `yaml:"jwt_issuer"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Environment    string        `yaml:"environment"`
	BootstrapAdmin string        `yaml:"bootstrap_admin"`
	AuditBuffer    int           `yaml:"audit_buffer"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// PostgresConfig configures the SQL store. An empty URL selects in-memory stores.
type PostgresConfig struct {
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ApplySchema     bool          `yaml:"apply_schema"`
}

// RedisConfig configures the stats cache. An empty URL disables caching.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	StatsTTL     time.Duration `yaml:"stats_ttl"`
}

// KafkaConfig configures the reminder publisher. No brokers selects the log publisher.
type KafkaConfig struct {
	Brokers       []string `yaml:"brokers"`
	ReminderTopic string   `yaml:"reminder_topic"`
	Partitions    int32    `yaml:"partitions"`
}

// ReminderConfig drives the vaccination reminder sweep.
type ReminderConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Interval  time.Duration `yaml:"interval"`
	Lookahead time.Duration `yaml:"lookahead"`
}

// RateLimitConfig bounds anonymous writes per IP and bulk registrations per user.
type RateLimitConfig struct {
	Enabled              bool `yaml:"enabled"`
	PublicWritePerMinute int  `yaml:"public_write_per_minute"`
	BulkPerHour          int  `yaml:"bulk_per_hour"`
}

// Default returns the development defaults.
func Default() Config {
	return Config{
		Server: Server{
			Addr:           ":8080",
			JWTSigningKey:  "dev-secret-key-change-in-production",
			JWTIssuer:      "zoopito",
			RequestTimeout: 30 * time.Second,
			Environment:    "development",
			AuditBuffer:    256,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Postgres: PostgresConfig{
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			ApplySchema:     true,
		},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			StatsTTL:     time.Minute,
		},
		Kafka: KafkaConfig{ReminderTopic: "zoopito.vaccination-reminders", Partitions: 3},
		Reminder: ReminderConfig{
			Enabled:   true,
			Interval:  time.Hour,
			Lookahead: 7 * 24 * time.Hour,
		},
		Limits: RateLimitConfig{
			Enabled:              true,
			PublicWritePerMinute: 10,
			BulkPerHour:          30,
		},
	}
}

// Load reads the YAML file at path (if any) over the defaults, then applies env overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv builds the config from ZOOPITO_CONFIG and the environment so main stays lean.
func FromEnv() (Config, error) {
	return Load(os.Getenv("ZOOPITO_CONFIG"))
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Addr, "ZOOPITO_ADDR")
	setString(&cfg.Server.JWTSigningKey, "JWT_SIGNING_KEY")
	setString(&cfg.Server.JWTIssuer, "JWT_ISSUER")
	setString(&cfg.Server.Environment, "ZOOPITO_ENV")
	setString(&cfg.Server.BootstrapAdmin, "ZOOPITO_BOOTSTRAP_ADMIN")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
	setString(&cfg.Postgres.URL, "DATABASE_URL")
	setString(&cfg.Redis.URL, "REDIS_URL")
	setString(&cfg.Kafka.ReminderTopic, "KAFKA_REMINDER_TOPIC")
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}

	durations := []struct {
		dst *time.Duration
		key string
	}{
		{&cfg.Server.RequestTimeout, "REQUEST_TIMEOUT"},
		{&cfg.Redis.StatsTTL, "REDIS_STATS_TTL"},
		{&cfg.Reminder.Interval, "REMINDER_INTERVAL"},
		{&cfg.Reminder.Lookahead, "REMINDER_LOOKAHEAD"},
	}
	for _, d := range durations {
		if err := setDuration(d.dst, d.key); err != nil {
			return err
		}
	}
	if err := setBool(&cfg.Reminder.Enabled, "REMINDER_ENABLED"); err != nil {
		return err
	}
	if err := setBool(&cfg.Limits.Enabled, "RATE_LIMIT_ENABLED"); err != nil {
		return err
	}
	return setBool(&cfg.Postgres.ApplySchema, "DATABASE_APPLY_SCHEMA")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = d
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = b
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
