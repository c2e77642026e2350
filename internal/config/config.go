package config

import "os"

type Config struct {
	ListenAddr      string
	DBPath          string
	LLMBackend      string
	OllamaHost      string
	AnthropicAPIKey string
	VisionModel     string
	ReasoningModel  string
	LogLevel        string
	LogFile         string
}

func Load() *Config {
	backend := getEnv("LLM_BACKEND", "ollama")

	defVision, defReasoning := "llava", "llama3.1"
	if backend == "anthropic" {
		defVision = "claude-3-5-sonnet-20241022"
		defReasoning = "claude-3-5-haiku-20241022"
	}

	return &Config{
		ListenAddr:      getEnv("LISTEN_ADDR", ":8080"),
		DBPath:          getEnv("DB_PATH", "/data/mealsnap.db"),
		LLMBackend:      backend,
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		VisionModel:     getEnv("VISION_MODEL", defVision),
		ReasoningModel:  getEnv("REASONING_MODEL", defReasoning),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
