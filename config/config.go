package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultHost    = "http://127.0.0.1:11434"
	defaultModel   = "glm-ocr"
	defaultTimeout = 180
)

type Config struct {
	OllamaHost        string
	Model             string
	TimeoutSeconds    int
	OutputDir         string
	EditorCmd         string
	DisableSanitize   bool
	EnableFileLogging bool
	LogLevel          string
	Hotkey            string
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or executable directory
	envPaths := []string{".env"}

	// If running as executable, also try the executable's directory
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		envPaths = append(envPaths, filepath.Join(execDir, ".env"))
	}

	// Try to load .env file (ignore errors if file doesn't exist)
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			godotenv.Load(envPath)
			break
		}
	}

	cfg := &Config{
		OllamaHost:        getEnvWithDefault("OLLAMA_HOST", defaultHost),
		Model:             getEnvWithDefault("MODEL", defaultModel),
		TimeoutSeconds:    getEnvInt("OCR_TIMEOUT_SECONDS", defaultTimeout),
		OutputDir:         getEnvWithDefault("OUTPUT_DIR", defaultOutputDir()),
		EditorCmd:         getEnvWithDefault("EDITOR_CMD", defaultEditor()),
		DisableSanitize:   strings.ToLower(os.Getenv("DISABLE_SANITIZE")) == "true",
		EnableFileLogging: strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) != "false",
		LogLevel:          getEnvWithDefault("LOG_LEVEL", "info"),
		Hotkey:            getEnvWithDefault("HOTKEY", "Ctrl+Alt+Q"),
	}

	return cfg, nil
}

// defaultOutputDir is the per-user capture directory: Pictures/ocr under home.
func defaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("Pictures", "ocr")
	}
	return filepath.Join(home, "Pictures", "ocr")
}

func defaultEditor() string {
	if runtime.GOOS == "windows" {
		return "notepad.exe"
	}
	return "kwrite"
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
