package hmm

import (
	"log/slog"
	"math"

	"github.com/happyhackingspace/ner/corpus"
	"github.com/happyhackingspace/ner/sequence"
)

// Config holds HMM estimation hyperparameters.
type Config struct {
	// Smoothing is the additive pseudo-count applied to every initial,
	// transition, and emission cell so no probability is exactly zero.
	Smoothing float64
	// MinWordCount folds words seen fewer than this many times in the
	// training corpus into UnknownWord before counting.
	MinWordCount int
}

// DefaultConfig returns the standard estimation constants.
func DefaultConfig() Config {
	return Config{
		Smoothing:    0.001,
		MinWordCount: 2,
	}
}

// Train reads an HMM off a corpus of labeled sentences by maximum-likelihood
// counting. Deterministic given a fixed corpus: tag and word IDs follow order
// of first appearance.
func Train(sentences []corpus.LabeledSentence, cfg Config) (*Model, error) {
	wordCounts := make(map[string]int)
	for _, s := range sentences {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		for _, tok := range s.Tokens {
			wordCounts[tok.Word]++
		}
	}

	// Index tags and words up front so the count tables can be sized.
	tags := sequence.NewAlphabet()
	words := sequence.NewAlphabet()
	words.Add(UnknownWord)
	wordID := func(w string) int {
		if wordCounts[w] < cfg.MinWordCount {
			return words.Add(UnknownWord)
		}
		return words.Add(w)
	}
	for _, s := range sentences {
		for _, tok := range s.Tokens {
			wordID(tok.Word)
		}
		for _, tag := range s.BIOTags() {
			tags.Add(tag)
		}
	}

	T := tags.Size()
	V := words.Size()
	initCounts := make([]float64, T)
	transCounts := make([][]float64, T)
	emitCounts := make([][]float64, T)
	for i := 0; i < T; i++ {
		initCounts[i] = cfg.Smoothing
		transCounts[i] = make([]float64, T)
		emitCounts[i] = make([]float64, V)
		for j := 0; j < T; j++ {
			transCounts[i][j] = cfg.Smoothing
		}
		for j := 0; j < V; j++ {
			emitCounts[i][j] = cfg.Smoothing
		}
	}

	for _, s := range sentences {
		bioTags := s.BIOTags()
		for i, tok := range s.Tokens {
			tag := tags.Get(bioTags[i])
			emitCounts[tag][wordID(tok.Word)]++
			if i == 0 {
				initCounts[tag]++
			} else {
				transCounts[tags.Get(bioTags[i-1])][tag]++
			}
		}
	}

	// Row-normalize and move to log space. Transition rows condition on the
	// previous tag, emission rows on the tag.
	initTotal := 0.0
	for _, c := range initCounts {
		initTotal += c
	}
	initLogProbs := make([]float64, T)
	for i := 0; i < T; i++ {
		initLogProbs[i] = math.Log(initCounts[i] / initTotal)
	}
	transLogProbs := normalizeRowsLog(transCounts)
	emitLogProbs := normalizeRowsLog(emitCounts)

	slog.Debug("HMM estimated", "tags", T, "vocabulary", V, "sentences", len(sentences))

	return &Model{
		Tags:          tags,
		Words:         words,
		InitLogProbs:  initLogProbs,
		TransLogProbs: transLogProbs,
		EmitLogProbs:  emitLogProbs,
	}, nil
}

func normalizeRowsLog(counts [][]float64) [][]float64 {
	out := make([][]float64, len(counts))
	for i, row := range counts {
		total := 0.0
		for _, c := range row {
			total += c
		}
		out[i] = make([]float64, len(row))
		for j, c := range row {
			out[i][j] = math.Log(c / total)
		}
	}
	return out
}
