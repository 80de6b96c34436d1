package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config represents the main configuration
type Config struct {
	Engine      EngineConfig      `yaml:"engine"`
	Lightweight LightweightConfig `yaml:"lightweight"`
	Log         LogConfig         `yaml:"log"`
}

// EngineConfig contains the main particle engine configuration
type EngineConfig struct {
	Width         int   `yaml:"width"`
	Height        int   `yaml:"height"`
	ParticleCount int   `yaml:"particle_count"`
	EnableGPU     bool  `yaml:"enable_gpu"`
	MaxFrameRate  int   `yaml:"max_framerate"`
	Seed          int64 `yaml:"seed"` // Optional: 0 means time-based
}

// LightweightConfig contains the reduced-footprint variant configuration
type LightweightConfig struct {
	Width         int   `yaml:"width"`
	Height        int   `yaml:"height"`
	ParticleCount int   `yaml:"particle_count"`
	Seed          int64 `yaml:"seed"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Width:         800,
			Height:        600,
			ParticleCount: 500,
			EnableGPU:     true,
			MaxFrameRate:  60,
			Seed:          0,
		},
		Lightweight: LightweightConfig{
			Width:         800,
			Height:        600,
			ParticleCount: 50,
			Seed:          0,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads the configuration from a file
func LoadConfig(filePath string) (*Config, error) {
	// Create default config
	config := DefaultConfig()

	// Read file
	data, err := os.ReadFile(filePath)
	if err != nil {
		return config, fmt.Errorf("config file not found, using defaults: %v", err)
	}

	// Parse YAML
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return config, fmt.Errorf("error parsing config: %v", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, filePath string) error {
	// Convert to YAML
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %v", err)
	}

	// Write file
	err = os.WriteFile(filePath, data, 0644)
	if err != nil {
		return fmt.Errorf("error writing config file: %v", err)
	}

	return nil
}
