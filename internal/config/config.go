package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port        int    `yaml:"port"`
	Environment string `yaml:"environment"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer"`
	AccessTTL  string `yaml:"access_ttl"`
	RefreshTTL string `yaml:"refresh_ttl"`
}

type VerificationConfig struct {
	CodeTTL      string `yaml:"code_ttl"`
	PendingTTL   string `yaml:"pending_ttl"`
	CodeLength   int    `yaml:"code_length"`
	ResendWindow string `yaml:"resend_window"`
}

type CleanupConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Interval string `yaml:"interval"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type NotifierConfig struct {
	Provider string       `yaml:"provider"`
	SMTP     SMTPConfig   `yaml:"smtp"`
	Twilio   TwilioConfig `yaml:"twilio"`
}

type ConfigFile struct {
	App          AppConfig          `yaml:"app"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	JWT          JWTConfig          `yaml:"jwt"`
	Verification VerificationConfig `yaml:"verification"`
	Cleanup      CleanupConfig      `yaml:"cleanup"`
	Notifier     NotifierConfig     `yaml:"notifier"`
}

type Config struct {
	Port        string
	Environment string
	DSN         string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	JWTIssuer  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	CodeTTL      time.Duration
	PendingTTL   time.Duration
	CodeLength   int
	ResendWindow time.Duration

	CleanupEnabled  bool
	CleanupInterval time.Duration

	NotifierProvider string
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	SMTPFrom         string
	TwilioSID        string
	TwilioToken      string
	TwilioFrom       string
}

// Production reports whether cookie hardening and release mode apply
func (c *Config) Production() bool {
	return c.Environment == "production"
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	path := env("CONFIG_PATH", "config/config.yml")
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := time.ParseDuration(configFile.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}
	refTTL, err := time.ParseDuration(configFile.JWT.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT refresh TTL: %w", err)
	}
	codeTTL, err := time.ParseDuration(configFile.Verification.CodeTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid verification code TTL: %w", err)
	}
	pendingTTL, err := time.ParseDuration(configFile.Verification.PendingTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid pending-account TTL: %w", err)
	}
	resWnd, err := time.ParseDuration(configFile.Verification.ResendWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid resend window: %w", err)
	}
	cleanupIvl, err := time.ParseDuration(configFile.Cleanup.Interval)
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup interval: %w", err)
	}

	return &Config{
		Port:        fmt.Sprintf("%d", configFile.App.Port),
		Environment: env("APP_ENV", configFile.App.Environment),
		DSN:         env("DATABASE_DSN", configFile.Database.DSN),

		RedisAddr:     env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword: env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:       configFile.Redis.DB,

		JWTSecret:  env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:  configFile.JWT.Issuer,
		AccessTTL:  accTTL,
		RefreshTTL: refTTL,

		CodeTTL:      codeTTL,
		PendingTTL:   pendingTTL,
		CodeLength:   configFile.Verification.CodeLength,
		ResendWindow: resWnd,

		CleanupEnabled:  configFile.Cleanup.Enabled,
		CleanupInterval: cleanupIvl,

		NotifierProvider: configFile.Notifier.Provider,
		SMTPHost:         configFile.Notifier.SMTP.Host,
		SMTPPort:         configFile.Notifier.SMTP.Port,
		SMTPUsername:     configFile.Notifier.SMTP.Username,
		SMTPPassword:     env("SMTP_PASSWORD", configFile.Notifier.SMTP.Password),
		SMTPFrom:         configFile.Notifier.SMTP.From,
		TwilioSID:        env("TWILIO_SID", configFile.Notifier.Twilio.AccountSID),
		TwilioToken:      env("TWILIO_TOKEN", configFile.Notifier.Twilio.AuthToken),
		TwilioFrom:       configFile.Notifier.Twilio.FromNumber,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
