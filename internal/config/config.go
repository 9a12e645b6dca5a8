package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v2"
)

type Config struct {
	App struct {
		Name         string `yaml:"name" env:"APP_NAME,overwrite"`
		Env          string `yaml:"env" env:"APP_ENV,overwrite"`
		ClientOrigin string `yaml:"client_origin" env:"CLIENT_ORIGIN,overwrite"`
		StaticDir    string `yaml:"static_dir" env:"STATIC_DIR,overwrite"`
		ExposeOTP    bool   `yaml:"expose_otp" env:"EXPOSE_OTP,overwrite"`
	} `yaml:"app"`

	Server struct {
		Host string `yaml:"host" env:"HOST,overwrite"`
		Port int    `yaml:"port" env:"PORT,overwrite"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url" env:"DATABASE_URL,overwrite"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret" env:"JWT_SECRET,overwrite"`
		// В минутах
		AccessTTL int `yaml:"access_ttl" env:"ACCESS_TOKEN_EXPIRES_IN_MINUTES,overwrite"`
		ResetTTL  int `yaml:"reset_ttl" env:"RESET_TOKEN_EXPIRES_IN_MINUTES,overwrite"`
	} `yaml:"jwt"`

	Auth struct {
		OTPTTL                 int `yaml:"otp_ttl" env:"OTP_TTL_MINUTES,overwrite"`
		UnverifiedReclaimHours int `yaml:"unverified_reclaim_hours" env:"UNVERIFIED_RECLAIM_HOURS,overwrite"`
		RateLimitPerMinute     int `yaml:"rate_limit_per_minute" env:"RATE_LIMIT_PER_MINUTE,overwrite"`
	} `yaml:"auth"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host" env:"SMTP_HOST,overwrite"`
		SMTPPort     int    `yaml:"smtp_port" env:"SMTP_PORT,overwrite"`
		SMTPUsername string `yaml:"smtp_user" env:"SMTP_USER,overwrite"`
		SMTPPassword string `yaml:"smtp_password" env:"SMTP_PASS,overwrite"`
		From         string `yaml:"from" env:"SMTP_FROM,overwrite"`
		UseTLS       bool   `yaml:"use_tls" env:"SMTP_SECURE,overwrite"`
		Workers      int    `yaml:"workers" env:"EMAIL_WORKERS,overwrite"`
	} `yaml:"email"`

	SMS struct {
		AccountSID string `yaml:"account_sid" env:"TWILIO_ACCOUNT_SID,overwrite"`
		AuthToken  string `yaml:"auth_token" env:"TWILIO_AUTH_TOKEN,overwrite"`
		FromNumber string `yaml:"from_number" env:"TWILIO_FROM_NUMBER,overwrite"`
	} `yaml:"sms"`

	Storage struct {
		Type       string `yaml:"type" env:"STORAGE_TYPE,overwrite"` // local, s3, cloudflare_r2
		BasePath   string `yaml:"base_path" env:"STORAGE_BASE_PATH,overwrite"`
		BaseURL    string `yaml:"base_url" env:"STORAGE_BASE_URL,overwrite"`
		Bucket     string `yaml:"bucket" env:"STORAGE_BUCKET,overwrite"`
		Region     string `yaml:"region" env:"STORAGE_REGION,overwrite"`
		AccessKey  string `yaml:"access_key" env:"STORAGE_ACCESS_KEY,overwrite"`
		SecretKey  string `yaml:"secret_key" env:"STORAGE_SECRET_KEY,overwrite"`
		Endpoint   string `yaml:"endpoint" env:"STORAGE_ENDPOINT,overwrite"`
		PublicRead bool   `yaml:"public_read" env:"STORAGE_PUBLIC_READ,overwrite"`
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size" env:"UPLOAD_MAX_SIZE,overwrite"`
		AllowedTypes []string `yaml:"allowed_types" env:"UPLOAD_ALLOWED_TYPES,overwrite"`
		ImageQuality int      `yaml:"image_quality" env:"UPLOAD_IMAGE_QUALITY,overwrite"`
	} `yaml:"upload"`

	// Первый администратор создается при старте, если задан
	Admin struct {
		Email    string `yaml:"email" env:"FIRST_ADMIN_EMAIL,overwrite"`
		Password string `yaml:"password" env:"FIRST_ADMIN_PASSWORD,overwrite"`
		Mobile   string `yaml:"mobile" env:"FIRST_ADMIN_MOBILE,overwrite"`
	} `yaml:"admin"`

	Telemetry struct {
		OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT,overwrite"`
		ServiceName  string `yaml:"service_name" env:"OTEL_SERVICE_NAME,overwrite"`
	} `yaml:"telemetry"`
}

// LoadConfig читает .env (если есть), затем config.yaml (если есть),
// затем накладывает переменные окружения поверх.
func LoadConfig(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	if err := loadYAML(configPath, &cfg); err != nil {
		return nil, err
	}

	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to open config file at %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}
	return nil
}

// ApplyDefaults заполняет незаданные значения.
func ApplyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "Transport"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "production"
	}
	if cfg.App.ClientOrigin == "" {
		cfg.App.ClientOrigin = "http://localhost:3000"
	}
	if cfg.App.StaticDir == "" {
		cfg.App.StaticDir = "./public"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.JWT.AccessTTL <= 0 {
		cfg.JWT.AccessTTL = 60
	}
	if cfg.JWT.ResetTTL <= 0 {
		cfg.JWT.ResetTTL = 30
	}
	if cfg.Auth.OTPTTL <= 0 {
		cfg.Auth.OTPTTL = 10
	}
	if cfg.Auth.UnverifiedReclaimHours <= 0 {
		cfg.Auth.UnverifiedReclaimHours = 24
	}
	if cfg.Auth.RateLimitPerMinute <= 0 {
		cfg.Auth.RateLimitPerMinute = 10
	}
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.Email.From == "" && cfg.Email.SMTPUsername != "" {
		cfg.Email.From = fmt.Sprintf("%q <%s>", cfg.App.Name, cfg.Email.SMTPUsername)
	}
	if cfg.Email.Workers <= 0 {
		cfg.Email.Workers = 2
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.BasePath == "" {
		cfg.Storage.BasePath = "./uploads"
	}
	if cfg.Storage.BaseURL == "" && cfg.Storage.Type == "local" {
		cfg.Storage.BaseURL = "/uploads"
	}
	if cfg.Upload.MaxSize <= 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if len(cfg.Upload.AllowedTypes) == 0 {
		cfg.Upload.AllowedTypes = []string{
			"image/jpeg", "image/png", "image/gif", "image/webp",
			"video/mp4", "video/quicktime", "video/webm",
			"application/pdf",
		}
	}
	if cfg.Upload.ImageQuality <= 0 || cfg.Upload.ImageQuality > 100 {
		cfg.Upload.ImageQuality = 85
	}
	if cfg.Admin.Mobile == "" {
		cfg.Admin.Mobile = "+10000000000"
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = strings.ToLower(strings.ReplaceAll(cfg.App.Name, " ", "-")) + "-api"
	}
}

// Validate проверяет обязательные значения.
func (c *Config) Validate() error {
	var missing []string
	if c.JWT.Secret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.Database.DSN == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// IsDevelopment - режим разработки (текстовые логи, OTP в ответе).
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// ShouldExposeOTP - возвращать ли код в ответе send-otp.
func (c *Config) ShouldExposeOTP() bool {
	return c.App.ExposeOTP || c.IsDevelopment()
}
