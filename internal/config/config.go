// Package config provides configuration loading for go-locobot commands.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the complete configuration for the teleop daemon.
type Config struct {
	Robot   RobotConfig   `yaml:"robot"`
	Gateway GatewayConfig `yaml:"gateway"`
	Loop    LoopConfig    `yaml:"loop"`
	Log     LogConfig     `yaml:"log"`
}

// RobotConfig selects the hardware (or simulated) rig to drive.
type RobotConfig struct {
	// Model is a registered robot model name, e.g. "locobot_wx250s"
	// or "locobot_base".
	Model string `yaml:"model"`
	// Sim runs against the in-process simulator instead of hardware.
	Sim bool `yaml:"sim"`
	// ArmPort is the Dynamixel serial device for the arm chain.
	ArmPort string `yaml:"armPort"`
	// ArmBaud is the serial baud rate for the Dynamixel bus.
	ArmBaud int `yaml:"armBaud"`
	// BaseInterface is the SocketCAN interface for the mobile base.
	BaseInterface string `yaml:"baseInterface"`
}

// GatewayConfig holds the inbound command server settings.
type GatewayConfig struct {
	Addr string `yaml:"addr"`
}

// LoopConfig holds control loop rate settings in Hz.
type LoopConfig struct {
	StartHz int `yaml:"startHz"`
	MinHz   int `yaml:"minHz"`
	MaxHz   int `yaml:"maxHz"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load builds the configuration from defaults, an optional YAML file and
// environment overrides, then validates it. An empty path skips the file
// unless LOCOBOT_CONFIG is set.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("LOCOBOT_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration used when nothing else is specified:
// a simulated wx250s locobot with the gateway on :8080.
func Default() *Config {
	return &Config{
		Robot: RobotConfig{
			Model:         "locobot_wx250s",
			Sim:           true,
			ArmPort:       "/dev/ttyDXL",
			ArmBaud:       1000000,
			BaseInterface: "can0",
		},
		Gateway: GatewayConfig{
			Addr: ":8080",
		},
		Loop: LoopConfig{
			StartHz: 25,
			MinHz:   10,
			MaxHz:   40,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// applyEnvOverrides applies LOCOBOT_* environment variables on top of the
// loaded configuration.
func applyEnvOverrides(cfg *Config) {
	if model := os.Getenv("LOCOBOT_MODEL"); model != "" {
		cfg.Robot.Model = model
	}
	if sim := os.Getenv("LOCOBOT_SIM"); sim != "" {
		if v, err := strconv.ParseBool(sim); err == nil {
			cfg.Robot.Sim = v
		}
	}
	if port := os.Getenv("LOCOBOT_ARM_PORT"); port != "" {
		cfg.Robot.ArmPort = port
	}
	if iface := os.Getenv("LOCOBOT_BASE_IFACE"); iface != "" {
		cfg.Robot.BaseInterface = iface
	}
	if addr := os.Getenv("LOCOBOT_ADDR"); addr != "" {
		cfg.Gateway.Addr = addr
	}
	if level := os.Getenv("LOCOBOT_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
}

// Validate checks the configuration for values the daemon cannot start with.
func (c *Config) Validate() error {
	if c.Robot.Model == "" {
		return fmt.Errorf("robot.model must be set")
	}
	if !c.Robot.Sim {
		if c.Robot.ArmPort == "" && c.Robot.BaseInterface == "" {
			return fmt.Errorf("hardware mode needs robot.armPort or robot.baseInterface")
		}
		if c.Robot.ArmPort != "" && c.Robot.ArmBaud <= 0 {
			return fmt.Errorf("robot.armBaud must be positive, got %d", c.Robot.ArmBaud)
		}
	}
	if c.Gateway.Addr == "" {
		return fmt.Errorf("gateway.addr must be set")
	}
	if c.Loop.MinHz <= 0 || c.Loop.MaxHz < c.Loop.MinHz {
		return fmt.Errorf("loop rate bounds [%d, %d] are not ordered", c.Loop.MinHz, c.Loop.MaxHz)
	}
	if c.Loop.StartHz < c.Loop.MinHz || c.Loop.StartHz > c.Loop.MaxHz {
		return fmt.Errorf("loop.startHz %d outside [%d, %d]", c.Loop.StartHz, c.Loop.MinHz, c.Loop.MaxHz)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log.level %q", c.Log.Level)
	}
	return nil
}
