// Package config provides environment helpers for go-gaze commands.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names read by the gaze command.
const (
	EnvCameraIndex = "CAMERA_INDEX"
	EnvModelPath   = "GAZE_MODEL_PATH"
	EnvModelURL    = "GAZE_MODEL_URL"
	EnvPort        = "GAZE_PORT"
	EnvDriverURL   = "EYE_DRIVER_URL"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogFile     = "LOG_FILE"
)

// LoadDotEnv loads variables from the given .env files (".env" when none are
// given). A missing file is not an error; variables already set in the
// process environment win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// String returns the env var value or def when unset or empty.
func String(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Int returns the env var parsed as an int, or def when unset or malformed.
func Int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
