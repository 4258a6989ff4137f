package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type FilesConfig struct {
	RootDir string `yaml:"root_dir"`
}

type MobizonConfig struct {
	APIKey   string `yaml:"api_key"`
	SenderID string `yaml:"sender_id"`
	DryRun   bool   `yaml:"dry_run"`
}

// AlertsConfig — Telegram-бот для сервисных оповещений (опционально).
type AlertsConfig struct {
	TelegramBotToken string `yaml:"telegram_bot_token"`
	TelegramChatID   int64  `yaml:"telegram_chat_id"`
}

type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"`
	AccessTokenTTL time.Duration `yaml:"-"`
	ResetTokenTTL  time.Duration `yaml:"-"`
	OTPTTL         time.Duration `yaml:"-"`
}

// UnmarshalYAML принимает TTL в виде строк формата time.ParseDuration
// ("24h", "5m"); пустое значение оставляет ноль, дефолт подставится при загрузке.
func (a *AuthConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		JWTSecret      string `yaml:"jwt_secret"`
		AccessTokenTTL string `yaml:"access_token_ttl"`
		ResetTokenTTL  string `yaml:"reset_token_ttl"`
		OTPTTL         string `yaml:"otp_ttl"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	a.JWTSecret = raw.JWTSecret

	parse := func(s string, dst *time.Duration) error {
		if s == "" {
			return nil
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}
	if err := parse(raw.AccessTokenTTL, &a.AccessTokenTTL); err != nil {
		return err
	}
	if err := parse(raw.ResetTokenTTL, &a.ResetTokenTTL); err != nil {
		return err
	}
	return parse(raw.OTPTTL, &a.OTPTTL)
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Auth    AuthConfig    `yaml:"auth"`
	Files   FilesConfig   `yaml:"files"`
	Mobizon MobizonConfig `yaml:"mobizon"`
	Alerts  AlertsConfig  `yaml:"alerts"`
}

func LoadConfig() *Config {
	cfg, err := LoadConfigFrom("config/config.yaml")
	if err != nil {
		panic("Failed to load config.yaml: " + err.Error())
	}
	return cfg
}

func LoadConfigFrom(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Files.RootDir == "" {
		cfg.Files.RootDir = "./files"
	}
	if cfg.Auth.AccessTokenTTL <= 0 {
		cfg.Auth.AccessTokenTTL = 24 * time.Hour
	}
	if cfg.Auth.ResetTokenTTL <= 0 {
		cfg.Auth.ResetTokenTTL = 1 * time.Hour
	}
	if cfg.Auth.OTPTTL <= 0 {
		cfg.Auth.OTPTTL = 5 * time.Minute
	}
	return &cfg, nil
}
