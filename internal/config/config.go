package config

import "os"

type Config struct {
	// EncryptionKey encrypts stored connection strings before they hit the DB
	EncryptionKey string

	// AccessKey is the master access key to the API. Must be kept safe and secure!
	AccessKey string

	// CronSecret authenticates the external timer that triggers due-schedule scans
	CronSecret string

	// BackupPasswordHash is the SHA-256 hex of the backup password users must
	// re-enter for sensitive schedule mutations
	BackupPasswordHash string

	ServerSSLCertFile, ServerSSLKeyFile string

	DatabasePath string
	ListenAddr   string
	LogFile      string

	// InternalScheduler runs the every-minute scan in-process instead of
	// relying on an external cron caller
	InternalScheduler bool

	// Object storage (S3-compatible) destination settings
	S3Endpoint, S3AccessKeyID, S3SecretKey, S3Region string

	// Google Drive destination settings
	DriveCredentialsFile string

	// Telegram notification settings
	TelegramBotToken string
	TelegramChatID   string
}

func New() Config {
	return Config{
		AccessKey:            os.Getenv("ACCESS_KEY"),
		CronSecret:           os.Getenv("CRON_SECRET"),
		EncryptionKey:        os.Getenv("ENCRYPTION_KEY"),
		BackupPasswordHash:   os.Getenv("BACKUP_PASSWORD_HASH"),
		ServerSSLCertFile:    os.Getenv("SERVER_SSL_CERT_FILE"),
		ServerSSLKeyFile:     os.Getenv("SERVER_SSL_KEY_FILE"),
		DatabasePath:         envOr("DATABASE_PATH", "/var/mongovault/data/database.db"),
		ListenAddr:           envOr("LISTEN_ADDR", ":3647"),
		LogFile:              os.Getenv("LOG_FILE"),
		InternalScheduler:    os.Getenv("INTERNAL_SCHEDULER") == "true",
		S3Endpoint:           os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:        os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretKey:          os.Getenv("S3_SECRET_KEY"),
		S3Region:             os.Getenv("S3_REGION"),
		DriveCredentialsFile: os.Getenv("DRIVE_CREDENTIALS_FILE"),
		TelegramBotToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:       os.Getenv("TELEGRAM_CHAT_ID"),
	}
}

func (c Config) HasTLSConfig() bool {
	return c.ServerSSLCertFile != "" && c.ServerSSLKeyFile != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
