package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env      Env
	Minio    MinioConfig
	Upload   UploadConfig
	Cleanup  CleanupConfig
	NATS     NATSConfig
	Database DatabaseConfig
	Server   ServerConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host           string `envconfig:"SERVER_HOST" default:"localhost"`
	Port           string `envconfig:"SERVER_PORT" default:"8080"`
	// MaxRequestSize bounds a whole multipart batch
	MaxRequestSize int64 `envconfig:"SERVER_MAX_REQUEST_SIZE" default:"268435456"`
}

type MinioConfig struct {
	Endpoint         string        `envconfig:"MINIO_ENDPOINT" required:"true"`
	AccessKey        string        `envconfig:"MINIO_ACCESS_KEY" required:"true"`
	SecretKey        string        `envconfig:"MINIO_SECRET_KEY" required:"true"`
	AttachmentBucket string        `envconfig:"MINIO_ATTACHMENT_BUCKET" default:"chat-attachments"`
	AvatarBucket     string        `envconfig:"MINIO_AVATAR_BUCKET" default:"avatars"`
	PublicBaseURL    string        `envconfig:"MINIO_PUBLIC_BASE_URL"`
	SignedURLTTL     time.Duration `envconfig:"MINIO_SIGNED_URL_TTL" default:"3600s"`
	UseSSL           bool          `envconfig:"MINIO_USE_SSL" default:"false"`
}

type UploadConfig struct {
	AttachmentMaxSize    int64         `envconfig:"UPLOAD_ATTACHMENT_MAX_SIZE" default:"52428800"` // 50MB
	AvatarMaxSize        int64         `envconfig:"UPLOAD_AVATAR_MAX_SIZE" default:"5242880"`      // 5MB
	RetryAttempts        int           `envconfig:"UPLOAD_RETRY_ATTEMPTS" default:"0"`
	RetryBackoff         time.Duration `envconfig:"UPLOAD_RETRY_BACKOFF" default:"500ms"`
	MaxConcurrentBatches int64         `envconfig:"UPLOAD_MAX_CONCURRENT_BATCHES" default:"4"`
	HeartbeatInterval    time.Duration `envconfig:"UPLOAD_HEARTBEAT_INTERVAL" default:"1m"`
	TempDir              string        `envconfig:"UPLOAD_TEMP_DIR"`
}

// SpoolDir returns the directory uploads are spooled into and the sweeper
// cleans, a dedicated folder under the OS temp dir unless TempDir is set
func (u UploadConfig) SpoolDir() string {
	if u.TempDir != "" {
		return u.TempDir
	}
	return filepath.Join(os.TempDir(), "chat-attachments")
}

type CleanupConfig struct {
	TempMaxAge          time.Duration `envconfig:"CLEANUP_TEMP_MAX_AGE" default:"24h"`
	SweepSchedule       string        `envconfig:"CLEANUP_SWEEP_SCHEDULE" default:"@every 1h"`
	StaleUploadAfter    time.Duration `envconfig:"CLEANUP_STALE_UPLOAD_AFTER" default:"30m"`
	StaleUploadSchedule string        `envconfig:"CLEANUP_STALE_UPLOAD_SCHEDULE" default:"@every 15m"`
}

type NATSConfig struct {
	URL                string `envconfig:"NATS_URL"`
	StreamName         string `envconfig:"NATS_STREAM_NAME" default:"STORAGE"`
	ConsumerName       string `envconfig:"NATS_CONSUMER_NAME" default:"thumbnailer"`
	Subject            string `envconfig:"NATS_SUBJECT" default:"minio.events"`
	UploadedStreamName string `envconfig:"NATS_UPLOADED_STREAM_NAME" default:"ATTACHMENTS"`
	UploadedSubject    string `envconfig:"NATS_UPLOADED_SUBJECT" default:"attachments.uploaded"`
}

// Enabled reports whether a broker is configured
func (n NATSConfig) Enabled() bool {
	return n.URL != ""
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER"`
	Password       string        `envconfig:"DB_PASSWORD"`
	Name           string        `envconfig:"DB_NAME"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

// Enabled reports whether a journal database is configured
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
