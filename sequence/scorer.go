package sequence

import "errors"

// Scorer provides the three log-domain potentials of a linear-chain sequence
// model, bound to a single sentence. Decoders depend only on this interface
// and never inspect model internals.
type Scorer interface {
	// ScoreInit scores tag as the first tag of the sequence.
	ScoreInit(tag int) float64
	// ScoreTransition scores moving from prev to curr between adjacent positions.
	ScoreTransition(prev, curr int) float64
	// ScoreEmission scores tag at the given position.
	ScoreEmission(tag, pos int) float64
}

// ErrEmptySequence is returned when a decoder or the forward-backward engine
// is handed a zero-length sequence.
var ErrEmptySequence = errors.New("sequence: empty token sequence")
