package config

// Suite configuration loading and validation for cecomply

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cectools/cecomply/internal/errors"
)

// Expectation pins the outcome of one subtest by name.
type Expectation struct {
	Subtest    string `yaml:"subtest"`
	Outcome    string `yaml:"outcome"`
	NoWarnings bool   `yaml:"no_warnings,omitempty"`
}

// AdapterConfig selects and parameterizes the bus adapter.
type AdapterConfig struct {
	Name string `yaml:"name"`
	Spec string `yaml:"spec,omitempty"` // adapter-specific, e.g. a device path
}

// SuiteConfig is the full test-run configuration.
type SuiteConfig struct {
	Adapter      AdapterConfig `yaml:"adapter"`
	LocalLA      int           `yaml:"local_la"`
	RemoteLA     int           `yaml:"remote_la"`
	Tags         []string      `yaml:"tags,omitempty"` // empty means all
	Interactive  bool          `yaml:"interactive,omitempty"`
	Expectations []Expectation `yaml:"expect,omitempty"`

	ReplyTimeoutMs int `yaml:"reply_timeout_ms,omitempty"`
	WakeTimeoutMs  int `yaml:"wake_timeout_ms,omitempty"`
}

// AdapterSpec returns the adapter argument in "name" or "name:spec"
// form for transport.Open.
func (c *SuiteConfig) AdapterSpec() string {
	if c.Adapter.Spec == "" {
		return c.Adapter.Name
	}
	return c.Adapter.Name + ":" + c.Adapter.Spec
}

// CreateDefaultSuiteConfig creates a default suite configuration
func CreateDefaultSuiteConfig() *SuiteConfig {
	return &SuiteConfig{
		Adapter:        AdapterConfig{Name: "loopback"},
		LocalLA:        4, // Playback 1
		RemoteLA:       1, // Recording 1
		ReplyTimeoutMs: 2000,
		WakeTimeoutMs:  60000,
	}
}

// WriteDefaultSuiteConfig writes a default suite configuration to a file
func WriteDefaultSuiteConfig(path string) error {
	cfg := CreateDefaultSuiteConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// LoadSuiteConfig loads a suite configuration from a YAML file.
// If the file doesn't exist and autoCreate is true, it will create a default config file
func LoadSuiteConfig(path string, autoCreate bool) (*SuiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if !autoCreate {
				return nil, errors.WrapConfigError(
					fmt.Errorf("config file not found: %s", path),
					path,
				)
			}
			if err := WriteDefaultSuiteConfig(path); err != nil {
				return nil, fmt.Errorf("create default config: %w", err)
			}
			data, err = os.ReadFile(path)
			if err != nil {
				return nil, errors.WrapConfigError(
					fmt.Errorf("read created config file: %w", err),
					path,
				)
			}
		} else {
			return nil, errors.WrapConfigError(
				fmt.Errorf("read config file: %w", err),
				path,
			)
		}
	}

	var cfg SuiteConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	// Apply defaults
	if cfg.Adapter.Name == "" {
		cfg.Adapter.Name = "loopback"
	}
	if cfg.ReplyTimeoutMs == 0 {
		cfg.ReplyTimeoutMs = 2000
	}
	if cfg.WakeTimeoutMs == 0 {
		cfg.WakeTimeoutMs = 60000
	}

	if err := ValidateSuiteConfig(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// ValidateSuiteConfig validates a suite configuration
func ValidateSuiteConfig(cfg *SuiteConfig) error {
	if cfg.LocalLA < 0 || cfg.LocalLA > 14 {
		return fmt.Errorf("local_la must be 0-14, got %d", cfg.LocalLA)
	}
	if cfg.RemoteLA < 0 || cfg.RemoteLA > 14 {
		return fmt.Errorf("remote_la must be 0-14, got %d", cfg.RemoteLA)
	}
	if cfg.LocalLA == cfg.RemoteLA {
		return fmt.Errorf("local_la and remote_la must differ")
	}
	if cfg.ReplyTimeoutMs < 0 {
		return fmt.Errorf("reply_timeout_ms must be >= 0")
	}
	if cfg.WakeTimeoutMs < 0 {
		return fmt.Errorf("wake_timeout_ms must be >= 0")
	}

	for i, e := range cfg.Expectations {
		if err := validateExpectation(e, i); err != nil {
			return err
		}
	}
	return nil
}

// validateExpectation validates a single expectation entry
func validateExpectation(e Expectation, index int) error {
	if e.Subtest == "" {
		return fmt.Errorf("expect[%d]: subtest is required", index)
	}
	if e.Outcome == "" {
		return fmt.Errorf("expect[%d]: outcome is required", index)
	}

	validOutcomes := []string{
		"Pass", "OK", "Fail", "FAIL", "Presumed",
		"NotApplicable", "NotSupported", "Refused", "Unexpected",
	}
	valid := false
	for _, vo := range validOutcomes {
		if strings.EqualFold(e.Outcome, vo) {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("expect[%d]: invalid outcome '%s'", index, e.Outcome)
	}
	return nil
}
