package sequence

import "sort"

// DefaultBeamWidth is the beam width used when callers pass width <= 0.
const DefaultBeamWidth = 9

type hypothesis struct {
	tags  []int
	score float64
}

// beam is a bounded collection of the k highest-scoring hypotheses, kept in
// descending score order. On equal scores the earlier insertion wins, so
// pruning is deterministic.
type beam struct {
	width int
	hyps  []hypothesis
}

func newBeam(width int) *beam {
	return &beam{width: width, hyps: make([]hypothesis, 0, width+1)}
}

func (b *beam) add(tags []int, score float64) {
	// Insertion point: strictly after all entries with score >= this one,
	// so first-seen hypotheses survive ties.
	i := sort.Search(len(b.hyps), func(i int) bool {
		return b.hyps[i].score < score
	})
	if i >= b.width {
		return
	}
	b.hyps = append(b.hyps, hypothesis{})
	copy(b.hyps[i+1:], b.hyps[i:])
	b.hyps[i] = hypothesis{tags: tags, score: score}
	if len(b.hyps) > b.width {
		b.hyps = b.hyps[:b.width]
	}
}

// BeamSearch finds an approximately best tag sequence of length n over
// numTags tags, keeping the width highest-scoring partial sequences at each
// position. It costs O(n*width*numTags) instead of Viterbi's O(n*numTags^2)
// and is not guaranteed optimal.
func BeamSearch(s Scorer, n, numTags, width int) ([]int, float64, error) {
	if n == 0 {
		return nil, 0, ErrEmptySequence
	}
	if width <= 0 {
		width = DefaultBeamWidth
	}

	cur := newBeam(width)
	for y := 0; y < numTags; y++ {
		cur.add([]int{y}, s.ScoreInit(y)+s.ScoreEmission(y, 0))
	}

	for t := 1; t < n; t++ {
		next := newBeam(width)
		for _, h := range cur.hyps {
			last := h.tags[len(h.tags)-1]
			for y := 0; y < numTags; y++ {
				ext := make([]int, len(h.tags)+1)
				copy(ext, h.tags)
				ext[len(h.tags)] = y
				next.add(ext, h.score+s.ScoreTransition(last, y)+s.ScoreEmission(y, t))
			}
		}
		cur = next
	}

	best := cur.hyps[0]
	return best.tags, best.score, nil
}
