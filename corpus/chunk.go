package corpus

import "strings"

// IsB reports whether tag begins an entity ("B-...").
func IsB(tag string) bool { return strings.HasPrefix(tag, "B-") }

// IsI reports whether tag continues an entity ("I-...").
func IsI(tag string) bool { return strings.HasPrefix(tag, "I-") }

// IsO reports whether tag is outside any entity.
func IsO(tag string) bool { return tag == "O" }

// TagLabel strips the BIO prefix: "B-PER" -> "PER". O maps to "".
func TagLabel(tag string) string {
	if IsB(tag) || IsI(tag) {
		return tag[2:]
	}
	return ""
}

// ChunksFromBIOTags groups a BIO tag sequence into labeled spans. Chunk
// boundaries fall at O->B/I transitions, at every B-, and wherever the entity
// type changes. A stray I-X with no open chunk of type X is repaired by
// treating it as B-X.
func ChunksFromBIOTags(tags []string) []Chunk {
	var chunks []Chunk
	start := -1
	label := ""
	for i, tag := range tags {
		switch {
		case IsO(tag):
			if start >= 0 {
				chunks = append(chunks, Chunk{Start: start, End: i, Label: label})
				start = -1
			}
		case IsB(tag), IsI(tag) && (start < 0 || TagLabel(tag) != label):
			if start >= 0 {
				chunks = append(chunks, Chunk{Start: start, End: i, Label: label})
			}
			start = i
			label = TagLabel(tag)
		}
	}
	if start >= 0 {
		chunks = append(chunks, Chunk{Start: start, End: len(tags), Label: label})
	}
	return chunks
}

// BIOTagsFromChunks converts chunks back to a BIO tag sequence of length n.
func BIOTagsFromChunks(chunks []Chunk, n int) []string {
	tags := make([]string, n)
	for i := range tags {
		tags[i] = "O"
	}
	for _, c := range chunks {
		tags[c.Start] = "B-" + c.Label
		for i := c.Start + 1; i < c.End; i++ {
			tags[i] = "I-" + c.Label
		}
	}
	return tags
}
