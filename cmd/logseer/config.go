package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML config file accepted by the serve command.
// Every field is optional; flags and environment variables win over it.
type fileConfig struct {
	Listen  string       `yaml:"listen"`
	DataDir string       `yaml:"data_dir"`
	AI      aiFileConfig `yaml:"ai"`
}

type aiFileConfig struct {
	OllamaURL            string `yaml:"ollama_url"`
	OllamaModel          string `yaml:"ollama_model"`
	EmbeddingURL         string `yaml:"embedding_url"`
	EmbeddingModel       string `yaml:"embedding_model"`
	GradeTimeoutSecs     int    `yaml:"grade_timeout_secs"`
	SynthesisTimeoutSecs int    `yaml:"synthesis_timeout_secs"`
}

// loadFileConfig reads an optional YAML config file. An empty path means no
// file was requested and yields zero values, so flag defaults apply.
func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
