package sequence

import "math"

// Viterbi finds the exact best tag sequence of length n over numTags tags.
// The delta/psi matrices are owned by this call and discarded on return,
// so concurrent calls over different sentences need no locking.
// Ties are broken by the first-encountered maximum, making the argmax stable.
func Viterbi(s Scorer, n, numTags int) ([]int, float64, error) {
	if n == 0 {
		return nil, 0, ErrEmptySequence
	}

	// delta[t][y] = best score of a path ending at position t with tag y
	delta := make([][]float64, n)
	// psi[t][y] = best previous tag for backtracking
	psi := make([][]int, n)

	// t = 0
	delta[0] = make([]float64, numTags)
	for y := 0; y < numTags; y++ {
		delta[0][y] = s.ScoreInit(y) + s.ScoreEmission(y, 0)
	}

	// t = 1..n-1
	for t := 1; t < n; t++ {
		delta[t] = make([]float64, numTags)
		psi[t] = make([]int, numTags)
		for y := 0; y < numTags; y++ {
			bestScore := math.Inf(-1)
			bestPrev := 0
			for yp := 0; yp < numTags; yp++ {
				score := delta[t-1][yp] + s.ScoreTransition(yp, y)
				if score > bestScore {
					bestScore = score
					bestPrev = yp
				}
			}
			delta[t][y] = bestScore + s.ScoreEmission(y, t)
			psi[t][y] = bestPrev
		}
	}

	// Find best final tag
	bestScore := math.Inf(-1)
	bestTag := 0
	for y := 0; y < numTags; y++ {
		if delta[n-1][y] > bestScore {
			bestScore = delta[n-1][y]
			bestTag = y
		}
	}

	// Backtrack
	path := make([]int, n)
	path[n-1] = bestTag
	for t := n - 2; t >= 0; t-- {
		path[t] = psi[t+1][path[t+1]]
	}

	return path, bestScore, nil
}
