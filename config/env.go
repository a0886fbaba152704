package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Env holds defaults taken from the environment. Command line flags
// override every field.
type Env struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
	Seed       int64
}

// LoadEnv reads an optional .env file, then the process environment.
func LoadEnv(files ...string) (Env, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Env{}, err
	}
	return Env{
		ConfigPath: envStr("GUESSWHO_CONFIG", DefaultPath),
		LogLevel:   envStr("GUESSWHO_LOG_LEVEL", "warn"),
		LogFormat:  envStr("GUESSWHO_LOG_FORMAT", "text"),
		Seed:       envInt64("GUESSWHO_SEED", 0),
	}, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
