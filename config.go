package ner

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/happyhackingspace/ner/crf"
	"github.com/happyhackingspace/ner/hmm"
)

// TrainConfig selects the model type and carries its hyperparameters. The
// zero values of the per-model fields mean "use the model's defaults".
type TrainConfig struct {
	// Model is "hmm" or "crf".
	Model string `yaml:"model"`

	// HMM estimation
	Smoothing    float64 `yaml:"smoothing"`
	MinWordCount int     `yaml:"min_word_count"`

	// CRF training
	Epochs       int     `yaml:"epochs"`
	LearningRate float64 `yaml:"learning_rate"`
	Seed         int64   `yaml:"seed"`
}

// DefaultTrainConfig returns the defaults for the given model type.
func DefaultTrainConfig(model string) *TrainConfig {
	h := hmm.DefaultConfig()
	c := crf.DefaultConfig()
	return &TrainConfig{
		Model:        model,
		Smoothing:    h.Smoothing,
		MinWordCount: h.MinWordCount,
		Epochs:       c.Epochs,
		LearningRate: c.LearningRate,
	}
}

// LoadTrainConfig reads a TrainConfig from a YAML file, filling unset fields
// with the defaults.
func LoadTrainConfig(path string) (*TrainConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ner: %w", err)
	}
	cfg := DefaultTrainConfig("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("ner: %s: %w", path, err)
	}
	return cfg, nil
}

func (c *TrainConfig) hmmConfig() hmm.Config {
	cfg := hmm.DefaultConfig()
	if c.Smoothing > 0 {
		cfg.Smoothing = c.Smoothing
	}
	if c.MinWordCount > 0 {
		cfg.MinWordCount = c.MinWordCount
	}
	return cfg
}

func (c *TrainConfig) crfConfig() crf.Config {
	cfg := crf.DefaultConfig()
	if c.Epochs > 0 {
		cfg.Epochs = c.Epochs
	}
	if c.LearningRate > 0 {
		cfg.LearningRate = c.LearningRate
	}
	cfg.Seed = c.Seed
	return cfg
}
