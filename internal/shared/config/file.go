package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the optional YAML configuration file.
type fileConfig struct {
	Port             string   `yaml:"port"`
	Env              string   `yaml:"env"`
	LogLevel         string   `yaml:"logLevel"`
	CORSAllowOrigins []string `yaml:"corsAllowOrigins"`
	RequestTimeout   string   `yaml:"requestTimeout"`
	MaxUploadBytes   int64    `yaml:"maxUploadBytes"`
	LLM              struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		BaseURL  string `yaml:"baseURL"`
		Project  string `yaml:"project"`
		Location string `yaml:"location"`
	} `yaml:"llm"`
	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`
	RateLimit struct {
		Cooldown string `yaml:"cooldown"`
		Disabled bool   `yaml:"disabled"`
	} `yaml:"rateLimit"`
}

func loadFile(path string) (fileConfig, error) {
	var cfg fileConfig
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (fileConfig) str(val, def string) string {
	if v := strings.TrimSpace(val); v != "" {
		return v
	}
	return def
}

func (fileConfig) dur(raw string, def time.Duration) time.Duration {
	if raw = strings.TrimSpace(raw); raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func (fileConfig) int64(val, def int64) int64 {
	if val > 0 {
		return val
	}
	return def
}
