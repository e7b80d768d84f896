package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

func requiredString(key string) (string, error) {
	variable, isOk := os.LookupEnv(key)
	if !isOk || variable == "" {
		return "", fmt.Errorf("missing required env var: %s", key)
	}
	return variable, nil
}

func stringWithDefault(key, def string) string {
	variable, isOk := os.LookupEnv(key)
	if !isOk || variable == "" {
		return def
	}
	return variable
}

func intWithDefault(key string, def int) (int, error) {
	variable, isOk := os.LookupEnv(key)
	if !isOk || variable == "" {
		return def, nil
	}
	number, err := strconv.Atoi(variable)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %w", key, err)
	}
	return number, nil
}

// durationWithDefault accepts Go durations ("300ms") or plain seconds.
func durationWithDefault(key string, def time.Duration) (time.Duration, error) {
	variable, isOk := os.LookupEnv(key)
	if !isOk || variable == "" {
		return def, nil
	}
	if seconds, err := strconv.ParseFloat(variable, 64); err == nil {
		return time.Duration(seconds * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(variable)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

// listFromEnv decodes a JSON (or YAML) array held in an env var.
func listFromEnv[T any](key string) ([]T, error) {
	variable, isOk := os.LookupEnv(key)
	if !isOk || variable == "" {
		return nil, nil
	}
	var out []T
	if err := yaml.Unmarshal([]byte(variable), &out); err != nil {
		return nil, fmt.Errorf("invalid list for %s: %w", key, err)
	}
	return out, nil
}
