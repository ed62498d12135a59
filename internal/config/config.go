package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"   validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth"       validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm"        validate:"required"`
	Extraction ExtractionConfig `mapstructure:"extraction" validate:"required"`
	Jobs       JobsConfig       `mapstructure:"jobs"       validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error fatal"`
}

// Database drivers understood by the application.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DatabaseConfig contains all database-related configuration settings.
// URL is required when Driver is "postgres"; Load enforces that.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres memory"`
	URL    string `mapstructure:"url"    validate:"omitempty,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0,lt=44640"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0,lt=44640,gtfield=TokenLifetimeMinutes"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"required,gte=4,lte=31"`
}

// LLMConfig contains the text-generation settings. An empty GeminiAPIKey
// disables the upstream call and chat extraction runs on the local fallback.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	ModelName         string `mapstructure:"model_name"          validate:"required"`
	MaxRetries        int    `mapstructure:"max_retries"         validate:"gte=0,lte=5"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=1,lte=60"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"     validate:"gte=1,lte=120"`
}

// ExtractionConfig tunes the chat-to-task pipeline.
type ExtractionConfig struct {
	// LexiconPath optionally replaces the embedded keyword lexicon.
	LexiconPath    string `mapstructure:"lexicon_path"`
	TitleWordLimit int    `mapstructure:"title_word_limit" validate:"gte=1,lte=20"`
}

// JobsConfig configures background processing.
type JobsConfig struct {
	QueueSize            int    `mapstructure:"queue_size"             validate:"gt=0"`
	WorkerCount          int    `mapstructure:"worker_count"           validate:"gt=0"`
	HistoryRetentionDays int    `mapstructure:"history_retention_days" validate:"gte=0"`
	RetentionSchedule    string `mapstructure:"retention_schedule"     validate:"required"`
}
