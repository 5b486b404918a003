package sequence

import (
	"math"
	"testing"
)

// tableScorer scores from fixed tables; emit is indexed [tag][pos].
type tableScorer struct {
	init  []float64
	trans [][]float64
	emit  [][]float64
}

func (s *tableScorer) ScoreInit(tag int) float64              { return s.init[tag] }
func (s *tableScorer) ScoreTransition(prev, curr int) float64 { return s.trans[prev][curr] }
func (s *tableScorer) ScoreEmission(tag, pos int) float64     { return s.emit[tag][pos] }

func (s *tableScorer) numTags() int { return len(s.init) }
func (s *tableScorer) length() int  { return len(s.emit[0]) }

// pathScore scores a complete path the way the decoders do, including the
// initial potential.
func pathScore(s *tableScorer, path []int) float64 {
	score := s.ScoreInit(path[0]) + s.ScoreEmission(path[0], 0)
	for t := 1; t < len(path); t++ {
		score += s.ScoreTransition(path[t-1], path[t]) + s.ScoreEmission(path[t], t)
	}
	return score
}

// enumeratePaths yields every tag sequence of the scorer's length.
func enumeratePaths(numTags, n int) [][]int {
	var paths [][]int
	path := make([]int, n)
	var rec func(pos int)
	rec = func(pos int) {
		if pos == n {
			cp := make([]int, n)
			copy(cp, path)
			paths = append(paths, cp)
			return
		}
		for y := 0; y < numTags; y++ {
			path[pos] = y
			rec(pos + 1)
		}
	}
	rec(0)
	return paths
}

func TestAlphabet(t *testing.T) {
	a := NewAlphabet()
	id0 := a.Add("B-PER")
	id1 := a.Add("O")
	id2 := a.Add("B-PER") // duplicate

	if id0 != 0 || id1 != 1 || id2 != 0 {
		t.Errorf("IDs: %d, %d, %d; want 0, 1, 0", id0, id1, id2)
	}
	if a.Size() != 2 {
		t.Errorf("Size = %d, want 2", a.Size())
	}
	if a.Get("I-PER") != -1 {
		t.Error("Get missing should return -1")
	}
	if a.String(1) != "O" {
		t.Errorf("String(1) = %q, want O", a.String(1))
	}
	if a.String(5) != "" {
		t.Error("String out of range should return empty string")
	}
}

func TestViterbiSimple(t *testing.T) {
	// 2 positions, 2 tags, hand-computed optimum
	s := &tableScorer{
		init:  []float64{0, 0},
		trans: [][]float64{{0.1, 0.2}, {0.3, 0.1}},
		emit:  [][]float64{{1.0, 0.3}, {0.5, 2.0}},
	}

	path, score, err := Viterbi(s, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	// [0,1]: 1.0 + 0.2 + 2.0 = 3.2 beats [0,0]=1.4, [1,0]=1.1, [1,1]=2.6
	if path[0] != 0 || path[1] != 1 {
		t.Errorf("path = %v, want [0 1]", path)
	}
	if math.Abs(score-3.2) > 1e-10 {
		t.Errorf("score = %v, want 3.2", score)
	}
}

func TestViterbiExactAgainstBruteForce(t *testing.T) {
	s := &tableScorer{
		init:  []float64{0.2, -0.5, 0.1},
		trans: [][]float64{{0.3, -1.2, 0.7}, {0.9, 0.1, -0.4}, {-0.6, 1.1, 0.2}},
		emit: [][]float64{
			{1.3, -0.2, 0.8, 0.1},
			{-0.7, 2.1, -1.0, 0.9},
			{0.4, 0.6, 1.5, -0.3},
		},
	}

	path, score, err := Viterbi(s, s.length(), s.numTags())
	if err != nil {
		t.Fatal(err)
	}

	bestScore := math.Inf(-1)
	var bestPath []int
	for _, p := range enumeratePaths(s.numTags(), s.length()) {
		if ps := pathScore(s, p); ps > bestScore {
			bestScore = ps
			bestPath = p
		}
	}

	if math.Abs(score-bestScore) > 1e-10 {
		t.Errorf("score = %v, brute force = %v", score, bestScore)
	}
	for i := range path {
		if path[i] != bestPath[i] {
			t.Fatalf("path = %v, brute force = %v", path, bestPath)
		}
	}
}

func TestViterbiEmpty(t *testing.T) {
	s := &tableScorer{init: []float64{0}, trans: [][]float64{{0}}, emit: [][]float64{{}}}
	if _, _, err := Viterbi(s, 0, 1); err != ErrEmptySequence {
		t.Errorf("err = %v, want ErrEmptySequence", err)
	}
}

func TestBeamSearchMatchesViterbiWhenUnbounded(t *testing.T) {
	s := &tableScorer{
		init:  []float64{0.0, -0.2},
		trans: [][]float64{{0.4, -0.8}, {1.2, 0.3}},
		emit: [][]float64{
			{0.9, -1.1, 0.2},
			{0.1, 1.7, 0.5},
		},
	}
	n, numTags := s.length(), s.numTags()

	vPath, vScore, err := Viterbi(s, n, numTags)
	if err != nil {
		t.Fatal(err)
	}
	// Width >= numTags^n makes the search exhaustive.
	bPath, bScore, err := BeamSearch(s, n, numTags, 8)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(vScore-bScore) > 1e-10 {
		t.Errorf("beam score = %v, viterbi score = %v", bScore, vScore)
	}
	for i := range vPath {
		if vPath[i] != bPath[i] {
			t.Fatalf("beam path = %v, viterbi path = %v", bPath, vPath)
		}
	}
}

func TestBeamSearchTiesFirstSeen(t *testing.T) {
	// All potentials zero: every path ties. The first-seen hypothesis must
	// win every pruning round, so the all-zeros path comes out.
	s := &tableScorer{
		init:  []float64{0, 0, 0},
		trans: [][]float64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}},
		emit:  [][]float64{{0, 0}, {0, 0}, {0, 0}},
	}
	path, _, err := BeamSearch(s, 2, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i, y := range path {
		if y != 0 {
			t.Fatalf("path[%d] = %d, want 0 (first-seen tie-break)", i, y)
		}
	}
}

func TestBeamSearchEmpty(t *testing.T) {
	s := &tableScorer{init: []float64{0}, trans: [][]float64{{0}}, emit: [][]float64{{}}}
	if _, _, err := BeamSearch(s, 0, 1, 4); err != ErrEmptySequence {
		t.Errorf("err = %v, want ErrEmptySequence", err)
	}
}

func TestForwardBackward(t *testing.T) {
	s := &tableScorer{
		init:  []float64{0, 0},
		trans: [][]float64{{0.1, 0.2}, {0.3, 0.1}},
		emit:  [][]float64{{1.0, 0.3, -0.5}, {0.5, 2.0, 0.7}},
	}
	n, numTags := s.length(), s.numTags()

	fb, err := ForwardBackward(s, n, numTags)
	if err != nil {
		t.Fatal(err)
	}

	// Marginals sum to 1 at every position
	for pos := 0; pos < n; pos++ {
		sum := 0.0
		for y := 0; y < numTags; y++ {
			sum += fb.Marginals[pos][y]
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("marginals at pos=%d sum to %v, want 1.0", pos, sum)
		}
	}

	// LogZ against brute force. Forward-backward excludes the initial
	// potential, so the reference sum does too.
	logZ := math.Inf(-1)
	for _, p := range enumeratePaths(numTags, n) {
		score := s.ScoreEmission(p[0], 0)
		for t := 1; t < n; t++ {
			score += s.ScoreTransition(p[t-1], p[t]) + s.ScoreEmission(p[t], t)
		}
		logZ = math.Log(math.Exp(logZ) + math.Exp(score))
	}
	if math.Abs(fb.LogZ-logZ) > 1e-9 {
		t.Errorf("LogZ = %v, brute force = %v", fb.LogZ, logZ)
	}

	// Forward partition at the last position equals backward partition at
	// the first.
	fwd := math.Inf(-1)
	bwd := math.Inf(-1)
	for y := 0; y < numTags; y++ {
		fwd = math.Log(math.Exp(fwd) + math.Exp(fb.Alpha[n-1][y]))
		bwd = math.Log(math.Exp(bwd) + math.Exp(fb.Beta[0][y]+fb.Alpha[0][y]))
	}
	if math.Abs(fwd-fb.LogZ) > 1e-9 {
		t.Errorf("forward partition %v != LogZ %v", fwd, fb.LogZ)
	}
	if math.Abs(bwd-fb.LogZ) > 1e-9 {
		t.Errorf("backward partition %v != LogZ %v", bwd, fb.LogZ)
	}
}

func TestForwardBackwardRejectsNaN(t *testing.T) {
	s := &tableScorer{
		init:  []float64{0, 0},
		trans: [][]float64{{0, 0}, {0, 0}},
		emit:  [][]float64{{math.NaN(), 0}, {0, 0}},
	}
	if _, err := ForwardBackward(s, 2, 2); err == nil {
		t.Fatal("expected error for NaN emission score")
	}
}

func TestForwardBackwardEmpty(t *testing.T) {
	s := &tableScorer{init: []float64{0}, trans: [][]float64{{0}}, emit: [][]float64{{}}}
	if _, err := ForwardBackward(s, 0, 1); err != ErrEmptySequence {
		t.Errorf("err = %v, want ErrEmptySequence", err)
	}
}
