package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const ConfigFileName = ".relhooks.yaml"

type Config struct {
	VersionFile string `yaml:"version_file"`
	SummaryEnv  string `yaml:"summary_env"`
	TagPrefix   string `yaml:"tag_prefix"`
	CreateTag   bool   `yaml:"create_tag"`
	// SummaryEscape keeps the backslash before the version in the CI summary
	// line, matching the format existing pipelines already parse.
	SummaryEscape *bool  `yaml:"summary_escape,omitempty"`
	Branch        string `yaml:"branch,omitempty"`
}

func DefaultConfig() *Config {
	escape := true
	return &Config{
		VersionFile:   "VERSION",
		SummaryEnv:    "GITHUB_STEP_SUMMARY",
		TagPrefix:     "v",
		SummaryEscape: &escape,
	}
}

// ConfigPath returns the config location for a repository root.
func ConfigPath(root string) string {
	return filepath.Join(root, ConfigFileName)
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, newHookError(PhaseVerify, KindConfig, fmt.Errorf("parse config: %w", err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

func (c *Config) Validate() error {
	if c.VersionFile == "" {
		return newHookError(PhaseVerify, KindConfig, fmt.Errorf("version_file must not be empty"))
	}
	return nil
}

// EscapeSummary reports whether the summary version keeps its backslash.
func (c *Config) EscapeSummary() bool {
	return c.SummaryEscape == nil || *c.SummaryEscape
}

// VersionFilePath resolves the version file against the repository root.
func (c *Config) VersionFilePath(root string) string {
	if filepath.IsAbs(c.VersionFile) {
		return c.VersionFile
	}
	return filepath.Join(root, c.VersionFile)
}

// SummaryPath reads the CI summary destination from the environment.
func (c *Config) SummaryPath() string {
	if c.SummaryEnv == "" {
		return ""
	}
	return os.Getenv(c.SummaryEnv)
}
