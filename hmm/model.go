// Package hmm implements a generative hidden Markov model for BIO sequence
// tagging, estimated by maximum likelihood with additive smoothing.
package hmm

import (
	"encoding/json"
	"os"

	"github.com/happyhackingspace/ner/corpus"
	"github.com/happyhackingspace/ner/sequence"
)

// UnknownWord is the reserved vocabulary entry that rare and out-of-vocabulary
// words are mapped to.
const UnknownWord = "UNK"

// Model holds the learned HMM potential tables, all in log space.
type Model struct {
	Tags  *sequence.Alphabet `json:"tags"`
	Words *sequence.Alphabet `json:"words"`
	// InitLogProbs[tag] is the initial-tag log probability.
	InitLogProbs []float64 `json:"init_log_probs"`
	// TransLogProbs[prev][curr] conditions on the previous tag.
	TransLogProbs [][]float64 `json:"transition_log_probs"`
	// EmitLogProbs[tag][word] conditions on the tag.
	EmitLogProbs [][]float64 `json:"emission_log_probs"`
}

// scorer adapts the model's tables to sequence.Scorer for one sentence.
// Word IDs are resolved once up front, with out-of-vocabulary words falling
// back to UnknownWord.
type scorer struct {
	m     *Model
	words []int
}

func (m *Model) newScorer(tokens []corpus.Token) *scorer {
	words := make([]int, len(tokens))
	for i, tok := range tokens {
		id := m.Words.Get(tok.Word)
		if id < 0 {
			id = m.Words.Get(UnknownWord)
		}
		words[i] = id
	}
	return &scorer{m: m, words: words}
}

func (s *scorer) ScoreInit(tag int) float64 {
	return s.m.InitLogProbs[tag]
}

func (s *scorer) ScoreTransition(prev, curr int) float64 {
	return s.m.TransLogProbs[prev][curr]
}

func (s *scorer) ScoreEmission(tag, pos int) float64 {
	return s.m.EmitLogProbs[tag][s.words[pos]]
}

// Decode tags the sentence with its exact best BIO sequence and groups the
// tags into entity chunks.
func (m *Model) Decode(tokens []corpus.Token) (*corpus.LabeledSentence, error) {
	path, _, err := sequence.Viterbi(m.newScorer(tokens), len(tokens), m.Tags.Size())
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
