package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type SPI struct {
	Bus    int `yaml:"bus"`    // e.g. 0 for /dev/spidev0.0
	Device int `yaml:"device"` // e.g. 0 for /dev/spidev0.0
}

type Config struct {
	Driver     string  `yaml:"driver"` // "spi" | "nrz" | "preview"
	LedCount   int     `yaml:"led_count"`
	RGBW       bool    `yaml:"rgbw"`
	Brightness float64 `yaml:"brightness"`
	FPS        int     `yaml:"fps"`
	Addr       string  `yaml:"addr,omitempty"` // control server listen address, "" disables

	SPI SPI `yaml:"spi,omitempty"`
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
