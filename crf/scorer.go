package crf

import "github.com/happyhackingspace/ner/corpus"

// bioViolation is the hard penalty applied to tag assignments that break the
// BIO scheme. Large enough that no learned weights can outscore a legal path.
const bioViolation = -1000.0

// featureScorer scores one sentence from the weight vector and that
// sentence's feature cache. Initial and transition potentials encode BIO
// legality as hard penalties rather than learned parameters.
type featureScorer struct {
	tags    []string
	weights []float64
	cache   FeatureCache
}

func (m *Model) newScorer(cache FeatureCache) *featureScorer {
	return &featureScorer{
		tags:    m.Tags.ToStr,
		weights: m.Weights,
		cache:   cache,
	}
}

// ScoreInit forbids opening a sequence with an inside tag.
func (s *featureScorer) ScoreInit(tag int) float64 {
	if corpus.IsI(s.tags[tag]) {
		return bioViolation
	}
	return 0
}

// ScoreTransition forbids O->I-X and B/I-X->I-Y with mismatched types.
func (s *featureScorer) ScoreTransition(prev, curr int) float64 {
	prevTag, currTag := s.tags[prev], s.tags[curr]
	if !corpus.IsI(currTag) {
		return 0
	}
	if corpus.IsO(prevTag) || corpus.TagLabel(prevTag) != corpus.TagLabel(currTag) {
		return bioViolation
	}
	return 0
}

func (s *featureScorer) ScoreEmission(tag, pos int) float64 {
	score := 0.0
	for _, f := range s.cache[pos][tag] {
		score += s.weights[f]
	}
	return score
}
