package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSiteName  = "Instapic"
	DefaultEventCode = "GLOBAL_EVENT"
	DefaultSecretKey = "change-me"
)

// Settings is the site configuration read once at startup. It is passed by
// value into the components that need it and never mutated afterwards.
type Settings struct {
	SiteName         string            `yaml:"site_name"`
	DefaultEventCode string            `yaml:"default_event_code"`
	SecretKey        string            `yaml:"secret_key"`
	CheckoutURLs     map[string]string `yaml:"checkout_urls"`
}

// LoadSettings reads the YAML settings file at path. A missing file yields the
// defaults; SITE_NAME, DEFAULT_EVENT_CODE and SECRET_KEY override the file.
func LoadSettings(path string) (Settings, error) {
	var settings Settings

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Settings{}, fmt.Errorf("failed to read settings %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return Settings{}, fmt.Errorf("failed to parse settings %s: %w", path, err)
		}
	}

	settings.SiteName = getEnv("SITE_NAME", orDefault(settings.SiteName, DefaultSiteName))
	settings.DefaultEventCode = getEnv("DEFAULT_EVENT_CODE", orDefault(settings.DefaultEventCode, DefaultEventCode))
	settings.SecretKey = getEnv("SECRET_KEY", orDefault(settings.SecretKey, DefaultSecretKey))
	if settings.CheckoutURLs == nil {
		settings.CheckoutURLs = map[string]string{}
	}
	return settings, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
