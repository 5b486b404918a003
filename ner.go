// Package ner tags token sequences with BIO named-entity labels and extracts
// the labeled entity spans.
//
// Two statistical models are provided behind one interface: a generative
// hidden Markov model and a discriminative linear-chain CRF.
//
//	tagger, _ := ner.New()
//	sentence, _ := tagger.Tag([]corpus.Token{{Word: "Alice", Pos: "NNP"}, {Word: "sleeps", Pos: "VBZ"}})
//	for _, c := range sentence.Chunks {
//	    fmt.Println(c.Label, c.Start, c.End) // "PER 0 1"
//	}
package ner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/happyhackingspace/ner/corpus"
	"github.com/happyhackingspace/ner/crf"
	"github.com/happyhackingspace/ner/hmm"
)

// Model is the decoding surface shared by the HMM and CRF taggers.
type Model interface {
	Decode(tokens []corpus.Token) (*corpus.LabeledSentence, error)
}

// Tagger wraps a trained sequence model.
type Tagger struct {
	model Model
}

// NewTagger wraps an already-trained model.
func NewTagger(model Model) *Tagger {
	return &Tagger{model: model}
}

// Tag labels the sentence and extracts its entity chunks.
func (t *Tagger) Tag(tokens []corpus.Token) (*corpus.LabeledSentence, error) {
	return t.model.Decode(tokens)
}

// Model returns the wrapped model.
func (t *Tagger) Model() Model {
	return t.model
}

// New loads the tagger from "model.json", searching the current directory and
// parent directories up to the module root (where go.mod lives).
func New() (*Tagger, error) {
	path, err := findModel("model.json")
	if err != nil {
		return nil, fmt.Errorf("ner: %w", err)
	}
	return Load(path)
}

func findModel(name string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		// Stop at module root
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("model.json not found")
}

// ModelDir returns the per-user cache directory for downloaded models.
func ModelDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "ner")
}

// modelFile is the on-disk envelope distinguishing HMM from CRF models.
type modelFile struct {
	Type  string          `json:"type"`
	Model json.RawMessage `json:"model"`
}

// Save writes the tagger to a typed JSON model file.
func (t *Tagger) Save(path string) error {
	var mf modelFile
	switch m := t.model.(type) {
	case *hmm.Model:
		mf.Type = "hmm"
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("ner: %w", err)
		}
		mf.Model = data
	case *crf.Model:
		mf.Type = "crf"
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("ner: %w", err)
		}
		mf.Model = data
	default:
		return fmt.Errorf("ner: unknown model type %T", t.model)
	}
	data, err := json.MarshalIndent(&mf, "", "  ")
	if err != nil {
		return fmt.Errorf("ner: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a tagger from a typed JSON model file.
func Load(path string) (*Tagger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ner: %w", err)
	}
	var mf modelFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("ner: %s: %w", path, err)
	}
	switch mf.Type {
	case "hmm":
		var m hmm.Model
		if err := json.Unmarshal(mf.Model, &m); err != nil {
			return nil, fmt.Errorf("ner: %s: %w", path, err)
		}
		return NewTagger(&m), nil
	case "crf":
		var m crf.Model
		if err := json.Unmarshal(mf.Model, &m); err != nil {
			return nil, fmt.Errorf("ner: %s: %w", path, err)
		}
		return NewTagger(&m), nil
	default:
		return nil, fmt.Errorf("ner: %s: unknown model type %q", path, mf.Type)
	}
}
