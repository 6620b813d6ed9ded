package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the API.
type Config struct {
	AppPort string
	AppEnv  string

	DBDriver      string
	MongoURI      string
	MongoDatabase string
	DatabaseDSN   string

	JWTSecret    string
	TokenTTL     time.Duration
	CookieName   string
	CookieSecure bool
	FrontendURL  string

	SMTPHost string
	SMTPPort int
	MailUser string
	MailPass string
	MailFrom string
	OTPTTL   time.Duration

	RabbitMQURL string

	AWSRegion       string
	S3Bucket        string
	S3PublicBaseURL string
	S3Prefix        string

	ImageMaxBytes      int64
	ImageMaxDimension  int
	RateLimitPerMinute int
	OTPAttempts        int
	OTPAttemptWindow   time.Duration
}

// IsDevelopment reports whether the API runs in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_DRIVER", "mongo")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "ecobloom")
	v.SetDefault("DATABASE_DSN", "file:ecobloom.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TOKEN_TTL", "168h")
	v.SetDefault("COOKIE_NAME", "token")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("FRONTEND_URL", "https://eco-bloom-client.vercel.app")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("MAIL_USER", "")
	v.SetDefault("MAIL_PASS", "")
	v.SetDefault("MAIL_FROM", "")
	v.SetDefault("OTP_TTL", "10m")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("AWS_REGION", "ap-south-1")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_PUBLIC_BASE_URL", "")
	v.SetDefault("S3_PREFIX", "ecobloom/plants")
	v.SetDefault("IMAGE_MAX_BYTES", 2<<20)
	v.SetDefault("IMAGE_MAX_DIMENSION", 1600)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 5)
	v.SetDefault("OTP_ATTEMPTS", 10)
	v.SetDefault("OTP_ATTEMPT_WINDOW", "15m")
}

// Load reads .env (when present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:            v.GetString("APP_PORT"),
		AppEnv:             v.GetString("APP_ENV"),
		DBDriver:           strings.ToLower(v.GetString("DB_DRIVER")),
		MongoURI:           v.GetString("MONGODB_URI"),
		MongoDatabase:      v.GetString("MONGODB_DATABASE"),
		DatabaseDSN:        v.GetString("DATABASE_DSN"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		TokenTTL:           v.GetDuration("TOKEN_TTL"),
		CookieName:         v.GetString("COOKIE_NAME"),
		CookieSecure:       v.GetBool("COOKIE_SECURE"),
		FrontendURL:        v.GetString("FRONTEND_URL"),
		SMTPHost:           v.GetString("SMTP_HOST"),
		SMTPPort:           v.GetInt("SMTP_PORT"),
		MailUser:           v.GetString("MAIL_USER"),
		MailPass:           v.GetString("MAIL_PASS"),
		MailFrom:           v.GetString("MAIL_FROM"),
		OTPTTL:             v.GetDuration("OTP_TTL"),
		RabbitMQURL:        v.GetString("RABBITMQ_URL"),
		AWSRegion:          v.GetString("AWS_REGION"),
		S3Bucket:           v.GetString("S3_BUCKET"),
		S3PublicBaseURL:    v.GetString("S3_PUBLIC_BASE_URL"),
		S3Prefix:           v.GetString("S3_PREFIX"),
		ImageMaxBytes:      v.GetInt64("IMAGE_MAX_BYTES"),
		ImageMaxDimension:  v.GetInt("IMAGE_MAX_DIMENSION"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		OTPAttempts:        v.GetInt("OTP_ATTEMPTS"),
		OTPAttemptWindow:   v.GetDuration("OTP_ATTEMPT_WINDOW"),
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.MailUser
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("JWT_SECRET is required")
		}
		cfg.JWTSecret = "ecobloom-dev-secret"
	}
	switch cfg.DBDriver {
	case "mongo", "postgres", "sqlite":
	default:
		return nil, errors.New("DB_DRIVER must be one of mongo, postgres, sqlite")
	}
	if cfg.TokenTTL <= 0 || cfg.OTPTTL <= 0 {
		return nil, errors.New("TOKEN_TTL and OTP_TTL must be positive durations")
	}
	return cfg, nil
}
