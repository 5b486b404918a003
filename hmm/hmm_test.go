package hmm

import (
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/happyhackingspace/ner/corpus"
	"github.com/happyhackingspace/ner/sequence"
)

func trainCorpus() []corpus.LabeledSentence {
	return []corpus.LabeledSentence{
		{
			Tokens: []corpus.Token{{Word: "Alice", Pos: "NNP"}, {Word: "lives", Pos: "VBZ"}},
			Chunks: []corpus.Chunk{{Start: 0, End: 1, Label: "PER"}},
		},
		{
			Tokens: []corpus.Token{{Word: "Bob", Pos: "NNP"}, {Word: "works", Pos: "VBZ"}},
			Chunks: []corpus.Chunk{{Start: 0, End: 1, Label: "PER"}},
		},
	}
}

func TestTrainRowsAreStochastic(t *testing.T) {
	m, err := Train(trainCorpus(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	sum := 0.0
	for _, lp := range m.InitLogProbs {
		sum += math.Exp(lp)
	}
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("initial probabilities sum to %v, want 1.0", sum)
	}
	for i, row := range m.TransLogProbs {
		sum = 0.0
		for _, lp := range row {
			sum += math.Exp(lp)
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("transition row %d sums to %v, want 1.0", i, sum)
		}
	}
	for i, row := range m.EmitLogProbs {
		sum = 0.0
		for _, lp := range row {
			sum += math.Exp(lp)
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("emission row %d sums to %v, want 1.0", i, sum)
		}
	}
}

func TestTrainRareWordsFoldIntoUnknown(t *testing.T) {
	// Every word in the toy corpus occurs exactly once, so the vocabulary
	// collapses to the UNK sentinel alone.
	m, err := Train(trainCorpus(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if m.Words.Size() != 1 || m.Words.Get(UnknownWord) != 0 {
		t.Errorf("vocabulary = %v, want only %q", m.Words.ToStr, UnknownWord)
	}
	if m.Tags.Size() != 2 {
		t.Errorf("tag count = %d, want 2 (B-PER, O)", m.Tags.Size())
	}
}

func TestDecodeEndToEnd(t *testing.T) {
	// With smoothing 0.001 the initial distribution is dominated by B-PER
	// (2.001 vs 0.001 counts) and B-PER -> O by the two observed bigrams, so
	// "Alice works" must come out [B-PER, O] even though both words resolve
	// to UNK.
	m, err := Train(trainCorpus(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	got, err := m.Decode([]corpus.Token{{Word: "Alice", Pos: "NNP"}, {Word: "works", Pos: "VBZ"}})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"B-PER", "O"}
	if !reflect.DeepEqual(got.BIOTags(), want) {
		t.Errorf("tags = %v, want %v", got.BIOTags(), want)
	}
	if len(got.Chunks) != 1 || got.Chunks[0] != (corpus.Chunk{Start: 0, End: 1, Label: "PER"}) {
		t.Errorf("chunks = %v", got.Chunks)
	}
}

func TestDecodeUnknownWordsDoNotFail(t *testing.T) {
	m, err := Train(trainCorpus(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Decode([]corpus.Token{{Word: "Zanzibar", Pos: "NNP"}, {Word: "sleeps", Pos: "VBZ"}}); err != nil {
		t.Fatalf("out-of-vocabulary decode failed: %v", err)
	}
}

func TestDecodeIdempotent(t *testing.T) {
	m, err := Train(trainCorpus(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	tokens := []corpus.Token{{Word: "Alice", Pos: "NNP"}, {Word: "works", Pos: "VBZ"}}
	first, err := m.Decode(tokens)
	if err != nil {
		t.Fatal(err)
	}
	second, err := m.Decode(tokens)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("decoding the same sentence twice gave different output")
	}
}

func TestDecodeEmpty(t *testing.T) {
	m, err := Train(trainCorpus(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Decode(nil); err != sequence.ErrEmptySequence {
		t.Errorf("err = %v, want ErrEmptySequence", err)
	}
}

func TestTrainRejectsMalformedChunks(t *testing.T) {
	bad := []corpus.LabeledSentence{{
		Tokens: []corpus.Token{{Word: "Alice", Pos: "NNP"}},
		Chunks: []corpus.Chunk{{Start: 0, End: 2, Label: "PER"}},
	}}
	if _, err := Train(bad, DefaultConfig()); err == nil {
		t.Fatal("expected error for chunk past end of sentence")
	}
}

func TestModelSaveLoad(t *testing.T) {
	m, err := Train(trainCorpus(), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "hmm.json")
	if err := SaveModel(m, path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadModel(path)
	if err != nil {
		t.Fatal(err)
	}
	got, err := loaded.Decode([]corpus.Token{{Word: "Alice", Pos: "NNP"}, {Word: "works", Pos: "VBZ"}})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.BIOTags(), []string{"B-PER", "O"}) {
		t.Errorf("loaded model tags = %v", got.BIOTags())
	}
}
