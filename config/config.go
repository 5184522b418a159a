package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Debug               bool     `envconfig:"debug"`
	Port                int      `envconfig:"port" default:"8080"`
	Env                 string   `envconfig:"env" default:"dev"`
	BaseUrl             string   `envconfig:"base_url" default:"http://localhost:8080"`
	PostgresHost        string   `envconfig:"postgres_host"`
	PostgresPort        int      `envconfig:"postgres_port" default:"5432"`
	PostgresUser        string   `envconfig:"postgres_user"`
	PostgresPassword    string   `envconfig:"postgres_password"`
	PostgresDB          string   `envconfig:"postgres_db"`
	PostgresTimeZone    string   `envconfig:"postgres_timezone" default:"Asia/Kathmandu"`
	JWTSecret           string   `envconfig:"jwt_secret"`
	RedisAddr           string   `envconfig:"redis_addr"`
	RedisPassword       string   `envconfig:"redis_password"`
	NatsURL             string   `envconfig:"nats_url"`
	MailgunApiKey       string   `envconfig:"mg_api_key"`
	MgDomain            string   `envconfig:"mg_domain"`
	MgEmailFrom         string   `envconfig:"email_from" default:"no-reply@awaz.local"`
	AWSRegion           string   `envconfig:"aws_region"`
	AWSBucket           string   `envconfig:"aws_bucket"`
	AWSAccessKeyID      string   `envconfig:"aws_access_key_id"`
	AWSSecretAccessKey  string   `envconfig:"aws_secret_access_key"`
	UploadDir           string   `envconfig:"upload_dir" default:"media"`
	AllowedOrigins      []string `envconfig:"allowed_origins"`
	ReportHideThreshold int      `envconfig:"report_hide_threshold" default:"3"`
	PageSize            int      `envconfig:"page_size" default:"6"`
}

func Load() (*Config, error) {
	env := os.Getenv("GIN_MODE")
	if env != "release" {
		if err := godotenv.Load("./.env"); err != nil {
			log.Printf("couldn't load env vars: %v", err)
		}
	}

	c := &Config{}
	err := envconfig.Process("awaz", c)
	if err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return errors.New("AWAZ_JWT_SECRET is required")
	}
	if c.ReportHideThreshold < 1 {
		return errors.Errorf("AWAZ_REPORT_HIDE_THRESHOLD must be at least 1, got %d", c.ReportHideThreshold)
	}
	return nil
}

// S3Enabled reports whether complaint images go to S3 rather than the local upload dir.
func (c *Config) S3Enabled() bool {
	return c.AWSBucket != "" && c.AWSRegion != ""
}

// MailgunEnabled reports whether outgoing mail goes through Mailgun.
func (c *Config) MailgunEnabled() bool {
	return c.MailgunApiKey != "" && c.MgDomain != ""
}
