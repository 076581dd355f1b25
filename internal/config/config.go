package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the full application configuration, loaded once at startup.
type Config struct {
	Port       string
	DBPath     string
	DataPath   string
	SamplePath string
	MaxRows    int
	LogLevel   string
	LogFormat  string

	Credentials Credentials
}

// Credentials are the provider API keys read from the environment.
// Presence (not value) drives provider selection.
type Credentials struct {
	GroqKey     string
	DeepSeekKey string
	OpenAIKey   string
	GeminiKey   string
}

// Load reads configuration from the environment, applying defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	// Missing .env is fine, real env vars still apply.
	_ = godotenv.Load()

	return &Config{
		Port:       getEnv("PORT", ":8080"),
		DBPath:     getEnv("DB_PATH", "./data/mobility.db"),
		DataPath:   getEnv("DATA_PATH", "./data/yellow_tripdata_2016-01.csv"),
		SamplePath: getEnv("SAMPLE_PATH", "./data/dataset_sample.csv"),
		MaxRows:    getEnvInt("MAX_ROWS", 50000),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "console"),
		Credentials: Credentials{
			GroqKey:     os.Getenv("GROQ_API_KEY"),
			DeepSeekKey: os.Getenv("DEEPSEEK_API_KEY"),
			OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
			GeminiKey:   os.Getenv("GEMINI_API_KEY"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
