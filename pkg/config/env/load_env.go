package env

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file. The ENV_PATH
// environment variable overrides the default path. A missing file is not
// an error; deployments inject real environment variables instead.
func LoadDotEnv(defaultPath string) {
	envPath := os.Getenv("ENV_PATH")
	if envPath == "" {
		envPath = defaultPath
	}

	if err := godotenv.Load(envPath); err != nil {
		slog.Info("Skipping .env ...", "path", envPath, "error", err)
	}
}

// Require reads a variable that has no usable default.
func Require(name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("required environment variable %s is not set", name)
	}
	return value, nil
}

// StringOr reads a variable with a fallback.
func StringOr(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// IntOr reads an integer variable with a fallback. A malformed value is
// an error rather than silently becoming the fallback.
func IntOr(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s is not a number: %q", name, raw)
	}
	return value, nil
}
