// Package crf implements a discriminative linear-chain Conditional Random
// Field for BIO sequence tagging, trained online with per-example gradients
// from the forward-backward algorithm and an Adagrad update rule.
package crf

import (
	"encoding/json"
	"os"

	"github.com/happyhackingspace/ner/corpus"
	"github.com/happyhackingspace/ner/sequence"
)

// Model holds the CRF parameters: the tag and feature vocabularies and a
// dense weight vector indexed by feature ID.
type Model struct {
	Tags     *sequence.Alphabet `json:"tags"`
	Features *sequence.Alphabet `json:"features"`
	Weights  []float64          `json:"weights"`
}

// Decode tags the sentence with the exact Viterbi best sequence.
func (m *Model) Decode(tokens []corpus.Token) (*corpus.LabeledSentence, error) {
	return m.decode(tokens, func(s sequence.Scorer) ([]int, float64, error) {
		return sequence.Viterbi(s, len(tokens), m.Tags.Size())
	})
}

// DecodeBeam tags the sentence with approximate beam search. A width <= 0
// selects sequence.DefaultBeamWidth.
func (m *Model) DecodeBeam(tokens []corpus.Token, width int) (*corpus.LabeledSentence, error) {
	return m.decode(tokens, func(s sequence.Scorer) ([]int, float64, error) {
		return sequence.BeamSearch(s, len(tokens), m.Tags.Size(), width)
	})
}

func (m *Model) decode(tokens []corpus.Token, search func(sequence.Scorer) ([]int, float64, error)) (*corpus.LabeledSentence, error) {
	if len(tokens) == 0 {
		return nil, sequence.ErrEmptySequence
	}
	// The feature cache lives for exactly this decode.
	cache := BuildFeatureCache(tokens, m.Tags, m.Features, false)
	path, _, err := search(m.newScorer(cache))
	if err != nil {
		return nil, err
	}
	tags := make([]string, len(path))
	for i, id := range path {
		tags[i] = m.Tags.String(id)
	}
	return &corpus.LabeledSentence{
		Tokens: tokens,
		Chunks: corpus.ChunksFromBIOTags(tags),
	}, nil
}

// SaveModel serializes the model to JSON.
func SaveModel(model *Model, path string) error {
	data, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadModel deserializes a model from JSON.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var model Model
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, err
	}
	return &model, nil
}
