package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Chat     ChatConfig
	Keys     APIKeys
	Realtime RealtimeConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	RealtimeLogPath    string
	CorsAllowedOrigins string
	BodyLimitMB        int
}

type ChatConfig struct {
	Variant          string // "bizchat" | "altron" | "luxchat"
	SessionTTL       time.Duration
	PresenceInterval time.Duration
}

type APIKeys struct {
	JwtSecret  string
	EventTopic string // In-process bus topic for chat events
}

type RealtimeConfig struct {
	NatsURL  string // empty disables the JetStream mirror
	RedisURL string // empty disables cross-instance fan-out
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			RealtimeLogPath:    getEnv("REALTIME_LOG_FILE_PATH", "logs/realtime.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			BodyLimitMB:        getEnvAsInt("BODY_LIMIT_MB", 10),
		},
		Chat: ChatConfig{
			Variant:          getEnv("CHAT_VARIANT", "bizchat"),
			SessionTTL:       getEnvAsDuration("SESSION_TTL", time.Hour),
			PresenceInterval: getEnvAsDuration("PRESENCE_INTERVAL", 5*time.Second),
		},
		Keys: APIKeys{
			JwtSecret:  getEnv("JWT_SECRET", "dev-session-secret"),
			EventTopic: getEnv("CHAT_EVENT_TOPIC_NAME", "chat_events"),
		},
		Realtime: RealtimeConfig{
			NatsURL:  getEnv("NATS_URL", ""),
			RedisURL: getEnv("REDIS_URL", ""),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
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

// getEnvAsDuration accepts Go durations ("30s") or plain seconds ("30").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
