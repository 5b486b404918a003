package ner

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/happyhackingspace/ner/corpus"
)

// EvalConfig holds evaluation options.
type EvalConfig struct {
	// Workers is the size of the decode pool; 0 means GOMAXPROCS.
	Workers int
}

// EvalResult holds chunk-level precision/recall/F1 and token accuracy.
type EvalResult struct {
	Precision float64
	Recall    float64
	F1        float64

	TokenAccuracy float64

	CorrectChunks   int
	PredictedChunks int
	GoldChunks      int
	CorrectTokens   int
	TotalTokens     int
}

// Evaluate decodes the labeled test sentences and scores predicted chunks
// against the gold chunks. Decoding mutates no shared state, so the sentences
// are tagged in parallel on a bounded goroutine pool.
func (t *Tagger) Evaluate(sentences []corpus.LabeledSentence, config *EvalConfig) (*EvalResult, error) {
	workers := 0
	if config != nil {
		workers = config.Workers
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("ner: %w", err)
	}
	defer pool.Release()

	predictions := make([]*corpus.LabeledSentence, len(sentences))
	errs := make([]error, len(sentences))
	var wg sync.WaitGroup
	for i := range sentences {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			predictions[i], errs[i] = t.Tag(sentences[i].Tokens)
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			return nil, fmt.Errorf("ner: %w", err)
		}
	}
	wg.Wait()

	result := &EvalResult{}
	for i, gold := range sentences {
		if errs[i] != nil {
			return nil, fmt.Errorf("ner: sentence %d: %w", i, errs[i])
		}
		pred := predictions[i]

		goldSet := make(map[corpus.Chunk]bool, len(gold.Chunks))
		for _, c := range gold.Chunks {
			goldSet[c] = true
		}
		for _, c := range pred.Chunks {
			if goldSet[c] {
				result.CorrectChunks++
			}
		}
		result.PredictedChunks += len(pred.Chunks)
		result.GoldChunks += len(gold.Chunks)

		goldTags := gold.BIOTags()
		predTags := pred.BIOTags()
		for j := range goldTags {
			if predTags[j] == goldTags[j] {
				result.CorrectTokens++
			}
		}
		result.TotalTokens += len(goldTags)
	}

	if result.PredictedChunks > 0 {
		result.Precision = float64(result.CorrectChunks) / float64(result.PredictedChunks)
	}
	if result.GoldChunks > 0 {
		result.Recall = float64(result.CorrectChunks) / float64(result.GoldChunks)
	}
	if result.Precision+result.Recall > 0 {
		result.F1 = 2 * result.Precision * result.Recall / (result.Precision + result.Recall)
	}
	if result.TotalTokens > 0 {
		result.TokenAccuracy = float64(result.CorrectTokens) / float64(result.TotalTokens)
	}
	return result, nil
}
