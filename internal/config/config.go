package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	ReportDir string         `mapstructure:"report_dir" yaml:"report_dir"`
	DBPath    string         `mapstructure:"db_path" yaml:"db_path"`
	Docker    DockerConfig   `mapstructure:"docker" yaml:"docker"`
	LLM       LLMConfig      `mapstructure:"llm" yaml:"llm"`
	Shodan    ShodanConfig   `mapstructure:"shodan" yaml:"shodan"`
	Limits    LimitsConfig   `mapstructure:"limits" yaml:"limits"`
	Timeouts  TimeoutsConfig `mapstructure:"timeouts" yaml:"timeouts"`
}

// DockerConfig controls the sandbox container runtime
type DockerConfig struct {
	Image string `mapstructure:"image" yaml:"image"`
}

// LLMConfig controls the report-generation model endpoint.
// The API key is never read from the config file, only from the environment.
type LLMConfig struct {
	Model       string  `mapstructure:"model" yaml:"model"`
	BaseURL     string  `mapstructure:"base_url" yaml:"base_url"`
	Temperature float32 `mapstructure:"temperature" yaml:"temperature"`
	APIKey      string  `mapstructure:"-" yaml:"-"`
}

// ShodanConfig controls the host-intelligence client
type ShodanConfig struct {
	MaxResults int    `mapstructure:"max_results" yaml:"max_results"`
	MaxLookups int    `mapstructure:"max_lookups" yaml:"max_lookups"`
	APIKey     string `mapstructure:"-" yaml:"-"`
}

// LimitsConfig caps how much of the discovered surface each phase consumes
type LimitsConfig struct {
	ProbeSample        int `mapstructure:"probe_sample" yaml:"probe_sample"`
	ShodanSample       int `mapstructure:"shodan_sample" yaml:"shodan_sample"`
	FingerprintTargets int `mapstructure:"fingerprint_targets" yaml:"fingerprint_targets"`
	FingerprintWorkers int `mapstructure:"fingerprint_workers" yaml:"fingerprint_workers"`
}

// TimeoutsConfig holds per-tool sandbox timeouts in seconds
type TimeoutsConfig struct {
	Subfinder int `mapstructure:"subfinder" yaml:"subfinder"`
	WhatWeb   int `mapstructure:"whatweb" yaml:"whatweb"`
	Httpx     int `mapstructure:"httpx" yaml:"httpx"`
}

// Load reads and parses configuration from a YAML file.
// If path is empty, searches for osintagent.yaml in the current directory,
// ./configs, and ~/.config/osintagent; when no file is found the defaults
// apply. An explicit path that cannot be read is an error.
// API keys and the image override always come from the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		v.SetConfigName("osintagent")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if homeDir, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(homeDir, ".config", "osintagent"))
		}

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
			// No config file anywhere: run on defaults
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Secrets and the image override live in the environment, matching the
	// deployment model where the YAML file is committed and keys are not.
	cfg.LLM.APIKey = os.Getenv("DEEPSEEK_API_KEY")
	cfg.Shodan.APIKey = os.Getenv("SHODAN_API_KEY")
	if img := os.Getenv("OSINT_DOCKER_IMAGE"); img != "" {
		cfg.Docker.Image = img
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.ReportDir == "" {
		errs = append(errs, errors.New("report_dir cannot be empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path cannot be empty"))
	}
	if c.Docker.Image == "" {
		errs = append(errs, errors.New("docker.image cannot be empty"))
	}
	if c.LLM.Model == "" {
		errs = append(errs, errors.New("llm.model cannot be empty"))
	}
	if c.Limits.ProbeSample <= 0 {
		errs = append(errs, errors.New("limits.probe_sample must be positive"))
	}
	if c.Limits.ShodanSample <= 0 {
		errs = append(errs, errors.New("limits.shodan_sample must be positive"))
	}
	if c.Limits.FingerprintTargets <= 0 {
		errs = append(errs, errors.New("limits.fingerprint_targets must be positive"))
	}
	if c.Limits.FingerprintWorkers <= 0 {
		errs = append(errs, errors.New("limits.fingerprint_workers must be positive"))
	}
	if c.Timeouts.Subfinder <= 0 || c.Timeouts.WhatWeb <= 0 || c.Timeouts.Httpx <= 0 {
		errs = append(errs, errors.New("timeouts must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
