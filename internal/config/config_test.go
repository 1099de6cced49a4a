package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateSuiteConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  *SuiteConfig
		wantErr bool
	}{
		{
			name: "valid config",
			config: &SuiteConfig{
				Adapter:  AdapterConfig{Name: "loopback"},
				LocalLA:  4,
				RemoteLA: 1,
			},
			wantErr: false,
		},
		{
			name: "local equals remote",
			config: &SuiteConfig{
				Adapter:  AdapterConfig{Name: "loopback"},
				LocalLA:  4,
				RemoteLA: 4,
			},
			wantErr: true,
		},
		{
			name: "remote out of range",
			config: &SuiteConfig{
				Adapter:  AdapterConfig{Name: "loopback"},
				LocalLA:  4,
				RemoteLA: 15,
			},
			wantErr: true,
		},
		{
			name: "expectation without subtest name",
			config: &SuiteConfig{
				Adapter:      AdapterConfig{Name: "loopback"},
				LocalLA:      4,
				RemoteLA:     1,
				Expectations: []Expectation{{Outcome: "Pass"}},
			},
			wantErr: true,
		},
		{
			name: "expectation with unknown outcome",
			config: &SuiteConfig{
				Adapter:      AdapterConfig{Name: "loopback"},
				LocalLA:      4,
				RemoteLA:     1,
				Expectations: []Expectation{{Subtest: "Polling Message", Outcome: "Maybe"}},
			},
			wantErr: true,
		},
		{
			name: "expectation with case-insensitive outcome",
			config: &SuiteConfig{
				Adapter:      AdapterConfig{Name: "loopback"},
				LocalLA:      4,
				RemoteLA:     1,
				Expectations: []Expectation{{Subtest: "Polling Message", Outcome: "pass"}},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSuiteConfig(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSuiteConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadSuiteConfig(t *testing.T) {
	t.Run("missing file without autoCreate", func(t *testing.T) {
		_, err := LoadSuiteConfig(filepath.Join(t.TempDir(), "nope.yaml"), false)
		if err == nil {
			t.Fatal("expected an error for a missing config file")
		}
	})

	t.Run("missing file with autoCreate", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "suite.yaml")
		cfg, err := LoadSuiteConfig(path, true)
		if err != nil {
			t.Fatalf("LoadSuiteConfig() error = %v", err)
		}
		if cfg.Adapter.Name != "loopback" {
			t.Errorf("default adapter = %q, want loopback", cfg.Adapter.Name)
		}
		if cfg.LocalLA != 4 || cfg.RemoteLA != 1 {
			t.Errorf("default addresses = %d/%d, want 4/1", cfg.LocalLA, cfg.RemoteLA)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("default config file was not created: %v", err)
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "suite.yaml")
		data := []byte("local_la: 4\nremote_la: 0\n")
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatal(err)
		}
		cfg, err := LoadSuiteConfig(path, false)
		if err != nil {
			t.Fatalf("LoadSuiteConfig() error = %v", err)
		}
		if cfg.Adapter.Name != "loopback" {
			t.Errorf("adapter default = %q, want loopback", cfg.Adapter.Name)
		}
		if cfg.ReplyTimeoutMs != 2000 || cfg.WakeTimeoutMs != 60000 {
			t.Errorf("timeout defaults = %d/%d", cfg.ReplyTimeoutMs, cfg.WakeTimeoutMs)
		}
	})

	t.Run("expectations round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "suite.yaml")
		data := []byte(`local_la: 4
remote_la: 0
tags: [core, system-information]
expect:
  - subtest: Polling Message
    outcome: Pass
    no_warnings: true
`)
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatal(err)
		}
		cfg, err := LoadSuiteConfig(path, false)
		if err != nil {
			t.Fatalf("LoadSuiteConfig() error = %v", err)
		}
		if len(cfg.Expectations) != 1 || !cfg.Expectations[0].NoWarnings {
			t.Errorf("expectations = %+v", cfg.Expectations)
		}
		if len(cfg.Tags) != 2 {
			t.Errorf("tags = %v", cfg.Tags)
		}
	})
}

func TestAdapterSpec(t *testing.T) {
	cfg := &SuiteConfig{Adapter: AdapterConfig{Name: "loopback"}}
	if got := cfg.AdapterSpec(); got != "loopback" {
		t.Errorf("AdapterSpec() = %q", got)
	}
	cfg.Adapter.Spec = "/dev/cec0"
	if got := cfg.AdapterSpec(); got != "loopback:/dev/cec0" {
		t.Errorf("AdapterSpec() = %q", got)
	}
}
