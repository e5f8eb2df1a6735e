package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	ProviderLocal = "local"
	ProviderBox   = "box"
	ProviderDrive = "drive"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	App      AppConfig
	Source   SourceConfig
	Form     FormConfig
	Feedback FeedbackConfig
	Session  SessionConfig
	Events   EventsConfig
	Otel     OtelConfig
}

type AppConfig struct {
	Port               string `validate:"required"`
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

// SourceConfig selects exactly one audio provider. Only presence is checked;
// credentials are not verified until the first listing.
type SourceConfig struct {
	Provider        string `validate:"required,oneof=local box drive"`
	LocalFolder     string `validate:"required_if=Provider local"`
	Extensions      []string
	BoxFolderID     string `validate:"required_if=Provider box"`
	BoxAccessToken  string `validate:"required_without_all=BoxClientID BoxClientSecret"`
	BoxClientID     string
	BoxClientSecret string
	BoxEnterpriseID string
	DriveFolderID   string `validate:"required_if=Provider drive"`
	DriveCredsFile  string
	DriveAPIKey     string
	CacheDuration   time.Duration
	Timeout         time.Duration
}

type FormConfig struct {
	URL           string
	FilenameEntry string
}

type FeedbackConfig struct {
	FilePath string `validate:"required"`
	Topic    string `validate:"required"`
}

type SessionConfig struct {
	Store    string `validate:"required,oneof=memory redis"`
	TTL      time.Duration
	RedisURL string `validate:"required_if=Store redis"`
}

type EventsConfig struct {
	NatsURL string
}

type OtelConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "5000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Source: SourceConfig{
			Provider:        strings.ToLower(getEnv("AUDIO_PROVIDER", ProviderLocal)),
			LocalFolder:     getEnv("LOCAL_AUDIO_FOLDER", "static"),
			Extensions:      getEnvAsList("AUDIO_EXTENSIONS", []string{".wav"}),
			BoxFolderID:     getEnv("BOX_FOLDER_ID", ""),
			BoxAccessToken:  getEnv("BOX_ACCESS_TOKEN", ""),
			BoxClientID:     getEnv("BOX_CLIENT_ID", ""),
			BoxClientSecret: getEnv("BOX_CLIENT_SECRET", ""),
			BoxEnterpriseID: getEnv("BOX_ENTERPRISE_ID", ""),
			DriveFolderID:   getEnv("GOOGLE_DRIVE_FOLDER_ID", ""),
			DriveCredsFile:  getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
			DriveAPIKey:     getEnv("GOOGLE_API_KEY", ""),
			CacheDuration:   time.Duration(getEnvAsInt("CACHE_DURATION", 300)) * time.Second,
			Timeout:         time.Duration(getEnvAsInt("SOURCE_TIMEOUT", 10)) * time.Second,
		},
		Form: FormConfig{
			URL:           getEnv("GOOGLE_FORM_URL", ""),
			FilenameEntry: getEnv("GOOGLE_FORM_FILENAME_ENTRY", ""),
		},
		Feedback: FeedbackConfig{
			FilePath: getEnv("FEEDBACK_FILE", "feedback_data.json"),
			Topic:    getEnv("FEEDBACK_TOPIC", "feedback.submitted"),
		},
		Session: SessionConfig{
			Store:    strings.ToLower(getEnv("SESSION_STORE", SessionStoreMemory)),
			TTL:      time.Duration(getEnvAsInt("SESSION_TTL", 120)) * time.Minute,
			RedisURL: getEnv("REDIS_URL", ""),
		},
		Events: EventsConfig{
			NatsURL: getEnv("NATS_URL", ""),
		},
		Otel: OtelConfig{
			Enabled:  getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

// Validate runs the presence checks. Box credentials are only required when
// Box is the selected provider.
func (c *Config) Validate() error {
	v := validator.New()

	if err := v.Struct(c.App); err != nil {
		return fmt.Errorf("app config: %w", err)
	}
	if err := v.StructExcept(c.Source, boxCredentialFields(c.Source.Provider)...); err != nil {
		return fmt.Errorf("source config: %w", err)
	}
	if err := v.Struct(c.Feedback); err != nil {
		return fmt.Errorf("feedback config: %w", err)
	}
	if err := v.Struct(c.Session); err != nil {
		return fmt.Errorf("session config: %w", err)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func boxCredentialFields(provider string) []string {
	if provider == ProviderBox {
		return nil
	}
	return []string{"BoxAccessToken"}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
