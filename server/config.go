package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the server's yaml-file configuration.
type Config struct {
	// WebAddr serves the REST api and websocket comms.
	WebAddr string `yaml:"webAddr"`
	// TCPAddr serves raw TCP comms.
	TCPAddr string `yaml:"tcpAddr"`
	// DataDir is where room state files live.
	DataDir string `yaml:"dataDir"`
	// HistoryFile collects finished match records, one JSON per line.
	HistoryFile string `yaml:"historyFile"`
	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"logLevel"`
}

func DefaultConfig() Config {
	return Config{
		WebAddr:     "0.0.0.0:1235",
		TCPAddr:     "0.0.0.0:1234",
		DataDir:     ".",
		HistoryFile: "history.jsonl",
		LogLevel:    "info",
	}
}

// LoadConfig reads a yaml config file. An empty path gives the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("cannot parse config: %w", err)
	}

	return cfg, nil
}
