package sequence

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// normalizerTolerance bounds how far the per-position log-normalizers may
// drift apart before the run is treated as an internal inconsistency.
const normalizerTolerance = 1e-6

// ForwardBackwardResult holds the output of a forward-backward run.
type ForwardBackwardResult struct {
	LogZ      float64     // log partition over all tag sequences
	Marginals [][]float64 // [pos][tag] P(y_pos=tag | x)
	Alpha     [][]float64 // [pos][tag] log forward values
	Beta      [][]float64 // [pos][tag] log backward values
}

// ForwardBackward computes log-domain forward and backward values, the log
// partition, and per-position tag marginals for a sentence of length n.
// All matrices are owned by the call. The per-position normalizers
// logsumexp(alpha+beta) must agree across positions; disagreement beyond a
// small tolerance, or any NaN/Inf produced by the scorer, is reported as an
// error rather than silently accepted.
func ForwardBackward(s Scorer, n, numTags int) (*ForwardBackwardResult, error) {
	if n == 0 {
		return nil, ErrEmptySequence
	}

	alpha := make([][]float64, n)
	beta := make([][]float64, n)
	for t := 0; t < n; t++ {
		alpha[t] = make([]float64, numTags)
		beta[t] = make([]float64, numTags)
	}
	terms := make([]float64, numTags)

	// Forward pass
	for y := 0; y < numTags; y++ {
		alpha[0][y] = s.ScoreEmission(y, 0)
	}
	for t := 1; t < n; t++ {
		for y := 0; y < numTags; y++ {
			em := s.ScoreEmission(y, t)
			for yp := 0; yp < numTags; yp++ {
				terms[yp] = alpha[t-1][yp] + s.ScoreTransition(yp, y) + em
			}
			alpha[t][y] = floats.LogSumExp(terms)
		}
	}

	// Backward pass (beta at the last position is log(1) = 0)
	for t := n - 2; t >= 0; t-- {
		for y := 0; y < numTags; y++ {
			for yn := 0; yn < numTags; yn++ {
				terms[yn] = beta[t+1][yn] + s.ScoreTransition(y, yn) + s.ScoreEmission(yn, t+1)
			}
			beta[t][y] = floats.LogSumExp(terms)
		}
	}

	// Per-position normalizers must all equal the log partition.
	norms := make([]float64, n)
	for t := 0; t < n; t++ {
		for y := 0; y < numTags; y++ {
			terms[y] = alpha[t][y] + beta[t][y]
		}
		norms[t] = floats.LogSumExp(terms)
		if math.IsNaN(norms[t]) || math.IsInf(norms[t], 0) {
			return nil, fmt.Errorf("sequence: non-finite normalizer %v at position %d (malformed potential table)", norms[t], t)
		}
	}
	logZ := norms[n-1]
	for t := 0; t < n; t++ {
		if math.Abs(norms[t]-logZ) > normalizerTolerance*(1+math.Abs(logZ)) {
			return nil, fmt.Errorf("sequence: normalizer mismatch at position %d: %v != %v", t, norms[t], logZ)
		}
	}

	marginals := make([][]float64, n)
	for t := 0; t < n; t++ {
		marginals[t] = make([]float64, numTags)
		for y := 0; y < numTags; y++ {
			marginals[t][y] = math.Exp(alpha[t][y] + beta[t][y] - norms[t])
		}
	}

	return &ForwardBackwardResult{
		LogZ:      logZ,
		Marginals: marginals,
		Alpha:     alpha,
		Beta:      beta,
	}, nil
}
