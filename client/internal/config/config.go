package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileName = ".mongovault.yml"

type Config struct {
	Host string `yaml:"host"`
}

func Parse() (Config, error) {
	c := Config{}
	value, err := os.ReadFile(path())
	if err != nil {
		return c, err
	}

	if err = yaml.Unmarshal(value, &c); err != nil {
		return c, err
	}
	return c, nil
}

func SaveConfig(c Config) error {
	value, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path(), value, 0o600)
}

func path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return fileName
	}
	return filepath.Join(home, fileName)
}
