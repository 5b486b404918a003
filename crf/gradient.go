package crf

import "github.com/happyhackingspace/ner/sequence"

// computeGradient runs forward-backward for one training example and returns
// the gold-sequence log probability (the per-example training objective) and
// the gradient of that objective as a sparse map from feature ID to value:
// observed gold feature counts minus marginal-weighted expected counts.
func computeGradient(scorer *featureScorer, cache FeatureCache, gold []int) (float64, map[int]float64, error) {
	n := len(cache)
	numTags := len(scorer.tags)

	fb, err := sequence.ForwardBackward(scorer, n, numTags)
	if err != nil {
		return 0, nil, err
	}

	grad := make(map[int]float64)
	for pos := 0; pos < n; pos++ {
		for _, f := range cache[pos][gold[pos]] {
			grad[f] += 1.0
		}
		for tag := 0; tag < numTags; tag++ {
			p := fb.Marginals[pos][tag]
			if p == 0 {
				continue
			}
			for _, f := range cache[pos][tag] {
				grad[f] -= p
			}
		}
	}

	// Gold path score against the same potentials the partition used.
	goldScore := scorer.ScoreEmission(gold[0], 0)
	for pos := 1; pos < n; pos++ {
		goldScore += scorer.ScoreTransition(gold[pos-1], gold[pos]) + scorer.ScoreEmission(gold[pos], pos)
	}

	return goldScore - fb.LogZ, grad, nil
}
