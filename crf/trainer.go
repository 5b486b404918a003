package crf

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/happyhackingspace/ner/corpus"
	"github.com/happyhackingspace/ner/sequence"
)

// Config holds CRF training hyperparameters.
type Config struct {
	// Epochs is the number of passes over the training corpus.
	Epochs int
	// LearningRate is Adagrad's global step size.
	LearningRate float64
	// Seed drives the per-epoch shuffle of sentence order. Updates are fully
	// online, so the shuffle order affects the trained weights; a fixed seed
	// makes training reproducible.
	Seed int64
}

// DefaultConfig returns the standard training hyperparameters.
func DefaultConfig() Config {
	return Config{
		Epochs:       3,
		LearningRate: 1.0,
	}
}

// Train trains a CRF on the given labeled sentences: feature caches are built
// once up front (and reused across epochs), then each epoch applies one
// Adagrad update per sentence in seeded-shuffled order.
func Train(sentences []corpus.LabeledSentence, cfg Config) (*Model, error) {
	tags := sequence.NewAlphabet()
	for i, s := range sentences {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if len(s.Tokens) == 0 {
			return nil, fmt.Errorf("crf: training sentence %d: %w", i, sequence.ErrEmptySequence)
		}
		for _, tag := range s.BIOTags() {
			tags.Add(tag)
		}
	}

	slog.Debug("Extracting features", "sentences", len(sentences), "tags", tags.Size())
	features := sequence.NewAlphabet()
	caches := make([]FeatureCache, len(sentences))
	golds := make([][]int, len(sentences))
	for i, s := range sentences {
		caches[i] = BuildFeatureCache(s.Tokens, tags, features, true)
		bioTags := s.BIOTags()
		golds[i] = make([]int, len(bioTags))
		for pos, tag := range bioTags {
			golds[i][pos] = tags.Get(tag)
		}
	}

	model := &Model{
		Tags:     tags,
		Features: features,
		Weights:  make([]float64, features.Size()),
	}
	opt := NewAdagrad(features.Size(), cfg.LearningRate)
	rng := rand.New(rand.NewSource(cfg.Seed))

	slog.Debug("Training CRF", "features", features.Size(), "epochs", cfg.Epochs)
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		start := time.Now()
		objective := 0.0
		for _, i := range rng.Perm(len(sentences)) {
			obj, grad, err := computeGradient(model.newScorer(caches[i]), caches[i], golds[i])
			if err != nil {
				return nil, fmt.Errorf("crf: sentence %d: %w", i, err)
			}
			objective += obj
			opt.Apply(model.Weights, grad)
		}
		slog.Debug("Epoch finished", "epoch", epoch+1, "objective", objective, "duration", time.Since(start))
	}

	return model, nil
}
