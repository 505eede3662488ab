package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Tone struct {
	Alpha *float64 `yaml:"alpha,omitempty"`
	Beta  *float64 `yaml:"beta,omitempty"`
}

type Display struct {
	Mode          string `yaml:"mode"` // "file" | "http" | "none"
	Out           string `yaml:"out"`  // e.g. toneadjust.png
	Open          bool   `yaml:"open"`
	Addr          string `yaml:"addr"` // e.g. :8080
	MaxPanelWidth int    `yaml:"max_panel_width"`
}

type Palette struct {
	Method string `yaml:"method"` // "dominantcolor" | "kmeans" | "none"
	Size   int    `yaml:"size"`
}

type Config struct {
	Tone     Tone    `yaml:"tone"`
	Display  Display `yaml:"display"`
	Palette  Palette `yaml:"palette"`
	LogLevel string  `yaml:"log_level"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
