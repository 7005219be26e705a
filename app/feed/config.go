package feed

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads the watch configuration (feeds and keywords) from a YAML
// file. The configuration is loaded once at startup and treated as immutable
// afterwards.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	setDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	slog.Debug("Watch configuration loaded", "feeds", len(config.Feeds), "keywords", len(config.Keywords))

	return &config, nil
}

func setDefaults(config *Config) {
	for i := range config.Feeds {
		if config.Feeds[i].Timeout == 0 {
			config.Feeds[i].Timeout = 30
		}
	}
}

func validateConfig(config *Config) error {
	if len(config.Feeds) == 0 {
		return fmt.Errorf("at least one feed is required")
	}

	for i, feed := range config.Feeds {
		if feed.Name == "" {
			return fmt.Errorf("feed at index %d: name is required", i)
		}
		if feed.URL == "" {
			return fmt.Errorf("feed at index %d: URL is required", i)
		}
		if !strings.HasPrefix(feed.URL, "http://") && !strings.HasPrefix(feed.URL, "https://") {
			return fmt.Errorf("feed at index %d: URL must be http(s): %s", i, feed.URL)
		}
		if feed.Timeout < 0 {
			return fmt.Errorf("feed at index %d: timeout must be non-negative", i)
		}
	}

	if len(config.Keywords) == 0 {
		return fmt.Errorf("at least one keyword is required")
	}

	for i, keyword := range config.Keywords {
		if strings.TrimSpace(keyword) == "" {
			return fmt.Errorf("keyword at index %d must not be empty", i)
		}
	}

	return nil
}
