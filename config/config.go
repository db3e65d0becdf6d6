package config

import (
	"log"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents an app config.
type Config struct {
	Telegram   Telegram
	PostgreSQL PostgreSQL
	Logger     Logger
	App        App
}

// Telegram represents a telegram bot configuration.
type Telegram struct {
	BotToken      string `env:"BOT_TOKEN"`
	UpdatesType   string `env:"UPDATES_TYPE" env-default:"polling"`
	WebhookURL    string `env:"WEBHOOK_URL"`
	ServerAddress string `env:"SERVER_ADDRESS" env-default:":8443"`
}

// PostgreSQL represents a postgreSQL database configuration.
type PostgreSQL struct {
	User     string `env:"POSTGRESQL_USER" env-default:"postgres"`
	Password string `env:"POSTGRESQL_PASSWORD" env-default:"postgres"`
	Database string `env:"POSTGRESQL_DATABASE" env-default:"albert"`
	Host     string `env:"POSTGRESQL_HOST" env-default:"localhost"`
	Port     string `env:"POSTGRESQL_PORT" env-default:"5432"`
	SSLMode  string `env:"POSTGRESQL_SSL_MODE" env-default:"disable"`
}

// Logger represents a logger configuration.
type Logger struct {
	LogLevel        string `env:"AQ_LOGGER_LOG_LEVEL" env-default:"debug"`
	LogFilename     string `env:"AQ_LOGGER_LOG_FILENAME" env-default:""`
	PrettyLogOutput bool   `env:"AQ_LOGGER_PRETTY_LOG_OUTPUT" env-default:"false"`
}

// App represents the bot behavior configuration.
type App struct {
	// AllowedUsernames restricts the bot to the listed telegram
	// usernames. An empty list leaves the bot open to everyone.
	AllowedUsernames []string `env:"AQ_ALLOWED_USERNAMES"`
	DatePickerURL    string   `env:"AQ_DATE_PICKER_URL"`
}

var (
	config Config
	once   sync.Once
)

// Get returns a new config.
func Get() *Config {
	once.Do(func() {
		err := cleanenv.ReadEnv(&config)
		if err != nil {
			log.Fatalf("read env: %v", err)
		}
	})

	return &config
}
