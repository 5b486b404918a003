package ner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/happyhackingspace/ner/corpus"
	"github.com/happyhackingspace/ner/crf"
	"github.com/happyhackingspace/ner/hmm"
)

// Train trains a tagger on CoNLL-style data. dataPath may be a single file or
// a directory of corpus files (read in sorted name order for reproducibility).
// A nil config trains an HMM with default hyperparameters.
func Train(dataPath string, config *TrainConfig) (*Tagger, error) {
	if config == nil {
		config = DefaultTrainConfig("hmm")
	}

	sentences, err := ReadTrainingData(dataPath)
	if err != nil {
		return nil, err
	}
	if len(sentences) == 0 {
		return nil, fmt.Errorf("ner: no sentences found in %s", dataPath)
	}
	slog.Info("Training", "model", config.Model, "sentences", len(sentences))

	switch config.Model {
	case "hmm", "":
		model, err := hmm.Train(sentences, config.hmmConfig())
		if err != nil {
			return nil, fmt.Errorf("ner: %w", err)
		}
		return NewTagger(model), nil
	case "crf":
		model, err := crf.Train(sentences, config.crfConfig())
		if err != nil {
			return nil, fmt.Errorf("ner: %w", err)
		}
		return NewTagger(model), nil
	default:
		return nil, fmt.Errorf("ner: unknown model type %q", config.Model)
	}
}

// ReadTrainingData loads labeled sentences from a CoNLL file or a directory
// of CoNLL files.
func ReadTrainingData(dataPath string) ([]corpus.LabeledSentence, error) {
	info, err := os.Stat(dataPath)
	if err != nil {
		return nil, fmt.Errorf("ner: %w", err)
	}
	if !info.IsDir() {
		return corpus.ReadCoNLL(dataPath)
	}

	entries, err := os.ReadDir(dataPath)
	if err != nil {
		return nil, fmt.Errorf("ner: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var sentences []corpus.LabeledSentence
	for _, name := range names {
		part, err := corpus.ReadCoNLL(filepath.Join(dataPath, name))
		if err != nil {
			return nil, err
		}
		slog.Debug("Corpus file read", "file", name, "sentences", len(part))
		sentences = append(sentences, part...)
	}
	return sentences, nil
}
