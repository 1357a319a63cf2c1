// Package config holds the settings of the image builder.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultImageSize is the size of a blank image before installation.
const DefaultImageSize = "30G"

// Config is the tool configuration. Empty fields fall back to the defaults.
type Config struct {
	// QemuImg is the qemu-img binary used to create and resize images.
	QemuImg string `yaml:"qemu-img"`
	// Sgdisk is the sgdisk binary used to inspect and repair partition tables.
	Sgdisk string `yaml:"sgdisk"`
	// ImageSize is the size of blank images, in any form qemu-img accepts.
	ImageSize string `yaml:"image-size"`
}

func Default() Config {
	return Config{
		QemuImg:   "qemu-img",
		Sgdisk:    "sgdisk",
		ImageSize: DefaultImageSize,
	}
}

// DefaultPath is where the configuration file is looked up when none is
// given explicitly.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, "windows-image-builder", "config.yml")
}

// Load reads the configuration file at path on top of the defaults. A
// missing file is only an error if mustExist is set.
func Load(path string, mustExist bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !mustExist {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config %q: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Config{}, fmt.Errorf("parsing config %q: %w", path, err)
	}
	cfg.merge(file)
	return cfg, nil
}

func (c *Config) merge(other Config) {
	if other.QemuImg != "" {
		c.QemuImg = other.QemuImg
	}
	if other.Sgdisk != "" {
		c.Sgdisk = other.Sgdisk
	}
	if other.ImageSize != "" {
		c.ImageSize = other.ImageSize
	}
}
