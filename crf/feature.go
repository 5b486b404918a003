package crf

import (
	"strconv"

	"github.com/happyhackingspace/ner/corpus"
	"github.com/happyhackingspace/ner/internal/textutil"
	"github.com/happyhackingspace/ner/sequence"
)

const maxNgramSize = 3

// FeatureCache maps [position][tag] to the ordered active feature IDs for
// one sentence. It is built once per decode or training example and discarded
// with it; no sentence state leaks into the model.
type FeatureCache [][][]int

// BuildFeatureCache extracts emission features for every (position, tag) pair
// of the sentence. In training mode new feature strings are registered in the
// feature alphabet; in inference mode unseen features are silently dropped.
func BuildFeatureCache(tokens []corpus.Token, tags, features *sequence.Alphabet, train bool) FeatureCache {
	cache := make(FeatureCache, len(tokens))
	for pos := range tokens {
		cache[pos] = make([][]int, tags.Size())
		for tag := 0; tag < tags.Size(); tag++ {
			cache[pos][tag] = extractEmissionFeatures(tokens, pos, tags.String(tag), features, train)
		}
	}
	return cache
}

// extractEmissionFeatures emits the lexical features for tagging the word at
// pos with tag: words and part-of-speech tags at offsets -1..1 (with sentence
// boundary sentinels), character prefix/suffix n-grams of the current word,
// capitalization, and word shape.
func extractEmissionFeatures(tokens []corpus.Token, pos int, tag string, features *sequence.Alphabet, train bool) []int {
	var feats []int
	add := func(name string) {
		if train {
			feats = append(feats, features.Add(tag+":"+name))
			return
		}
		if id := features.Get(tag + ":" + name); id >= 0 {
			feats = append(feats, id)
		}
	}

	word := tokens[pos].Word
	for offset := -1; offset <= 1; offset++ {
		w, p := "<s>", "<S>"
		switch i := pos + offset; {
		case i >= len(tokens):
			w, p = "</s>", "</S>"
		case i >= 0:
			w, p = tokens[i].Word, tokens[i].Pos
		}
		add("Word" + strconv.Itoa(offset) + "=" + w)
		add("Pos" + strconv.Itoa(offset) + "=" + p)
	}
	for n := 1; n <= maxNgramSize; n++ {
		add("StartNgram=" + textutil.Prefix(word, n))
		add("EndNgram=" + textutil.Suffix(word, n))
	}
	add("IsCap=" + strconv.FormatBool(textutil.IsCapitalized(word)))
	add("WordShape=" + textutil.WordShape(word))
	return feats
}
