// Package corpus provides the token, sentence, and chunk types shared by the
// sequence taggers, BIO tag conversion, and a CoNLL-style corpus reader.
package corpus

import "fmt"

// Token is a single word with its part-of-speech tag.
type Token struct {
	Word string `json:"word"`
	Pos  string `json:"pos"`
}

// Chunk is a labeled entity span over token offsets, half-open [Start, End).
type Chunk struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Label string `json:"label"`
}

// LabeledSentence pairs tokens with their extracted entity chunks.
type LabeledSentence struct {
	Tokens []Token `json:"tokens"`
	Chunks []Chunk `json:"chunks"`
}

// Validate checks that every chunk lies within the token sequence. Trainers
// call this before counting or building feature caches so malformed input
// fails fast instead of desynchronizing downstream state.
func (s *LabeledSentence) Validate() error {
	for _, c := range s.Chunks {
		if c.Start < 0 || c.End <= c.Start || c.End > len(s.Tokens) {
			return fmt.Errorf("corpus: chunk %q [%d,%d) out of range for %d tokens", c.Label, c.Start, c.End, len(s.Tokens))
		}
	}
	return nil
}

// BIOTags returns the per-token BIO tag sequence implied by the chunks.
func (s *LabeledSentence) BIOTags() []string {
	return BIOTagsFromChunks(s.Chunks, len(s.Tokens))
}

// Words returns the surface words of the sentence.
func (s *LabeledSentence) Words() []string {
	words := make([]string, len(s.Tokens))
	for i, tok := range s.Tokens {
		words[i] = tok.Word
	}
	return words
}
