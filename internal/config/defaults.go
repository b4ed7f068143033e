package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		ReportDir: "reports",
		DBPath:    "osintagent.db",
		Docker: DockerConfig{
			Image: "osint-tools:latest",
		},
		LLM: LLMConfig{
			Model:       "deepseek-chat",
			BaseURL:     "https://api.deepseek.com",
			Temperature: 0.3,
		},
		Shodan: ShodanConfig{
			MaxResults: 25,
			MaxLookups: 5,
		},
		Limits: LimitsConfig{
			ProbeSample:        25,
			ShodanSample:       20,
			FingerprintTargets: 10,
			FingerprintWorkers: 3,
		},
		Timeouts: TimeoutsConfig{
			Subfinder: 120,
			WhatWeb:   60,
			Httpx:     120,
		},
	}
}

// setDefaults registers default values so a partial YAML file only needs to
// override what differs.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("report_dir", d.ReportDir)
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("docker.image", d.Docker.Image)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("shodan.max_results", d.Shodan.MaxResults)
	v.SetDefault("shodan.max_lookups", d.Shodan.MaxLookups)
	v.SetDefault("limits.probe_sample", d.Limits.ProbeSample)
	v.SetDefault("limits.shodan_sample", d.Limits.ShodanSample)
	v.SetDefault("limits.fingerprint_targets", d.Limits.FingerprintTargets)
	v.SetDefault("limits.fingerprint_workers", d.Limits.FingerprintWorkers)
	v.SetDefault("timeouts.subfinder", d.Timeouts.Subfinder)
	v.SetDefault("timeouts.whatweb", d.Timeouts.WhatWeb)
	v.SetDefault("timeouts.httpx", d.Timeouts.Httpx)
}

// WriteDefault writes a default configuration to the specified path
func WriteDefault(path string) error {
	cfg := DefaultConfig()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
