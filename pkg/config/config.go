package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Session     SessionConfig
	Storage     StorageConfig
	Export      ExportConfig
	Media       MediaConfig
	Transcriber TranscriberConfig
	Summarizer  SummarizerConfig
	Ollama      OllamaConfig
	Groq        GroqConfig
	Whisper     WhisperConfig
	Assembly    AssemblyAIConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string   `envconfig:"PORT" default:"8080"`
	Host            string   `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string   `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ShutdownTimeout int      `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
	MaxUploadMB     int64    `envconfig:"MAX_UPLOAD_MB" default:"2048"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver         string        `envconfig:"DB_DRIVER" default:"sqlite"`
	Path           string        `envconfig:"DB_PATH" default:"meetings.db"`
	Host           string        `envconfig:"DB_HOST" default:"localhost"`
	Port           string        `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" default:"postgres"`
	Password       string        `envconfig:"DB_PASSWORD" default:"postgres"`
	Name           string        `envconfig:"DB_NAME" default:"meetnotes"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns       int           `envconfig:"DB_MAX_CONNS" default:"10"`
	MinConns       int           `envconfig:"DB_MIN_CONNS" default:"2"`
	ConnectTimeout time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"30s"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// SessionConfig selects where in-flight pipeline sessions live
type SessionConfig struct {
	Backend string        `envconfig:"SESSION_BACKEND" default:"memory"`
	TTL     time.Duration `envconfig:"SESSION_TTL" default:"24h"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string `envconfig:"STORAGE_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"meetnotes-exports"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
}

// ExportConfig selects where published exports are written
type ExportConfig struct {
	Backend string `envconfig:"EXPORT_BACKEND" default:"local"`
	Dir     string `envconfig:"EXPORT_DIR" default:"exports"`
}

// MediaConfig holds decoder configuration
type MediaConfig struct {
	FFmpegPath string `envconfig:"FFMPEG_PATH" default:"ffmpeg"`
	TempDir    string `envconfig:"MEDIA_TEMP_DIR" default:""`
}

// TranscriberConfig selects the speech-to-text backend
type TranscriberConfig struct {
	Backend string `envconfig:"TRANSCRIBER_BACKEND" default:"whisper"`
}

// SummarizerConfig holds settings shared by all summarizer backends
type SummarizerConfig struct {
	Backend     string        `envconfig:"SUMMARIZER_BACKEND" default:"ollama"`
	Timeout     time.Duration `envconfig:"SUMMARIZER_TIMEOUT" default:"120s"`
	Temperature float64       `envconfig:"SUMMARIZER_TEMPERATURE" default:"0.2"`
}

// OllamaConfig holds local Ollama configuration
type OllamaConfig struct {
	Host  string `envconfig:"OLLAMA_HOST" default:"http://localhost:11434"`
	Model string `envconfig:"OLLAMA_MODEL" default:"mistral"`
}

// GroqConfig holds Groq API configuration
type GroqConfig struct {
	APIKey  string `envconfig:"GROQ_API_KEY" default:""`
	BaseURL string `envconfig:"GROQ_API_URL" default:"https://api.groq.com"`
	Model   string `envconfig:"GROQ_MODEL" default:"llama-3.1-8b-instant"`
}

// WhisperConfig holds configuration for an OpenAI-compatible whisper server
type WhisperConfig struct {
	URL       string        `envconfig:"WHISPER_URL" default:"http://localhost:8000"`
	Model     string        `envconfig:"WHISPER_MODEL" default:"base"`
	VADFilter bool          `envconfig:"WHISPER_VAD_FILTER" default:"true"`
	Timeout   time.Duration `envconfig:"WHISPER_TIMEOUT" default:"30m"`
}

// AssemblyAIConfig holds AssemblyAI configuration
type AssemblyAIConfig struct {
	APIKey string `envconfig:"ASSEMBLYAI_API_KEY" default:""`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	cfg := &Config{}
	sections := []interface{}{
		&cfg.Server, &cfg.Database, &cfg.Redis, &cfg.Session, &cfg.Storage, &cfg.Export,
		&cfg.Media, &cfg.Transcriber, &cfg.Summarizer, &cfg.Ollama, &cfg.Groq, &cfg.Whisper, &cfg.Assembly,
	}
	// Sections are processed one by one so keys stay unprefixed (OLLAMA_HOST, not OLLAMA_OLLAMA_HOST)
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := oneOf("DB_DRIVER", c.Database.Driver, DriverSQLite, DriverPostgres); err != nil {
		return err
	}
	if err := oneOf("SESSION_BACKEND", c.Session.Backend, "memory", "redis"); err != nil {
		return err
	}
	if err := oneOf("EXPORT_BACKEND", c.Export.Backend, "local", "minio"); err != nil {
		return err
	}
	if err := oneOf("TRANSCRIBER_BACKEND", c.Transcriber.Backend, "whisper", "assemblyai"); err != nil {
		return err
	}
	if err := oneOf("SUMMARIZER_BACKEND", c.Summarizer.Backend, "ollama", "groq"); err != nil {
		return err
	}
	if c.Transcriber.Backend == "assemblyai" && c.Assembly.APIKey == "" {
		return fmt.Errorf("ASSEMBLYAI_API_KEY is required when TRANSCRIBER_BACKEND=assemblyai")
	}
	if c.Summarizer.Backend == "groq" && c.Groq.APIKey == "" {
		return fmt.Errorf("GROQ_API_KEY is required when SUMMARIZER_BACKEND=groq")
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

// Database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// GetDatabaseDSN returns the database connection string for the configured driver
func (c *Config) GetDatabaseDSN() string {
	if c.Database.Driver == DriverSQLite {
		return c.Database.Path + "?_foreign_keys=on&_busy_timeout=5000"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %v, got %q", key, allowed, value)
}
