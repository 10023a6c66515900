package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Robot.Model != "locobot_wx250s" {
		t.Errorf("Expected model=locobot_wx250s, got %q", cfg.Robot.Model)
	}
	if !cfg.Robot.Sim {
		t.Error("Expected sim=true by default")
	}
	if cfg.Gateway.Addr != ":8080" {
		t.Errorf("Expected addr=:8080, got %q", cfg.Gateway.Addr)
	}

	// Loop defaults must match the controller's working range
	if cfg.Loop.StartHz != 25 {
		t.Errorf("Expected startHz=25, got %d", cfg.Loop.StartHz)
	}
	if cfg.Loop.MinHz != 10 || cfg.Loop.MaxHz != 40 {
		t.Errorf("Expected rate bounds [10, 40], got [%d, %d]", cfg.Loop.MinHz, cfg.Loop.MaxHz)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locobot.yaml")
	data := []byte("robot:\n  model: locobot_px100\n  sim: false\n  armPort: /dev/ttyUSB0\n  armBaud: 1000000\ngateway:\n  addr: \":9090\"\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Robot.Model != "locobot_px100" {
		t.Errorf("Expected model=locobot_px100, got %q", cfg.Robot.Model)
	}
	if cfg.Robot.Sim {
		t.Error("Expected sim=false from file")
	}
	if cfg.Gateway.Addr != ":9090" {
		t.Errorf("Expected addr=:9090, got %q", cfg.Gateway.Addr)
	}
	// Unset fields keep their defaults
	if cfg.Loop.StartHz != 25 {
		t.Errorf("Expected default startHz=25, got %d", cfg.Loop.StartHz)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOCOBOT_MODEL", "locobot_wx200")
	t.Setenv("LOCOBOT_SIM", "true")
	t.Setenv("LOCOBOT_ADDR", ":7070")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Robot.Model != "locobot_wx200" {
		t.Errorf("Expected env model=locobot_wx200, got %q", cfg.Robot.Model)
	}
	if cfg.Gateway.Addr != ":7070" {
		t.Errorf("Expected env addr=:7070, got %q", cfg.Gateway.Addr)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty model", func(c *Config) { c.Robot.Model = "" }},
		{"empty addr", func(c *Config) { c.Gateway.Addr = "" }},
		{"inverted rate bounds", func(c *Config) { c.Loop.MinHz = 40; c.Loop.MaxHz = 10 }},
		{"start below min", func(c *Config) { c.Loop.StartHz = 5 }},
		{"start above max", func(c *Config) { c.Loop.StartHz = 50 }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"hardware without transports", func(c *Config) {
			c.Robot.Sim = false
			c.Robot.ArmPort = ""
			c.Robot.BaseInterface = ""
		}},
		{"hardware with zero baud", func(c *Config) {
			c.Robot.Sim = false
			c.Robot.ArmBaud = 0
		}},
	}

	for _, tc := range cases {
		cfg := Default()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error, got nil", tc.name)
		}
	}
}
