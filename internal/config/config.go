package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	SRS      SRSConfig      `mapstructure:"srs" validate:"required"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// DatabaseConfig contains all database related settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication settings. Tokens are minted by the
// bot gateway after it has verified the chat platform's signature; this
// service only validates them.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// LLMConfig contains all card generator related settings.
type LLMConfig struct {
	GeminiAPIKey          string `mapstructure:"gemini_api_key"          validate:"required"`
	ModelName             string `mapstructure:"model_name"              validate:"required"`
	SourceLanguage        string `mapstructure:"source_language"         validate:"required,len=2"`
	TargetLanguage        string `mapstructure:"target_language"         validate:"required,len=2"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"gte=1,lte=120"`
	MaxRetries            int    `mapstructure:"max_retries"             validate:"gte=0,lte=5"`
	RetryDelaySeconds     int    `mapstructure:"retry_delay_seconds"     validate:"gte=1,lte=30"`
}

// SRSConfig contains the review scheduling constants. The documented
// defaults live in Load; the cross-field invariant (easy factor above
// review factor above 1) is enforced by the srs package at wiring time.
type SRSConfig struct {
	BaselineIntervalMinutes int     `mapstructure:"baseline_interval_minutes" validate:"required,gte=1"`
	ReviewFactor            float64 `mapstructure:"review_factor"             validate:"required,gt=1"`
	EasyFactor              float64 `mapstructure:"easy_factor"               validate:"required,gt=1"`
	MaxIntervalMinutes      int     `mapstructure:"max_interval_minutes"      validate:"required,gte=1"`
}
