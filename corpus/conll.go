package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadCoNLL reads a CoNLL-style corpus file: one token per line with
// whitespace-separated columns (word, part-of-speech, ..., BIO tag last),
// sentences separated by blank lines.
func ReadCoNLL(path string) ([]LabeledSentence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}
	defer func() { _ = f.Close() }()
	sentences, err := ParseCoNLL(f)
	if err != nil {
		return nil, fmt.Errorf("corpus: %s: %w", path, err)
	}
	return sentences, nil
}

// ParseCoNLL parses CoNLL-style token lines from r.
func ParseCoNLL(r io.Reader) ([]LabeledSentence, error) {
	var sentences []LabeledSentence
	var tokens []Token
	var tags []string

	flush := func() {
		if len(tokens) == 0 {
			return
		}
		sentences = append(sentences, LabeledSentence{
			Tokens: tokens,
			Chunks: ChunksFromBIOTags(tags),
		})
		tokens = nil
		tags = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, "-DOCSTART-") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: want at least word and tag columns, got %q", lineNo, line)
		}
		pos := "-"
		if len(fields) > 2 {
			pos = fields[1]
		}
		tokens = append(tokens, Token{Word: fields[0], Pos: pos})
		tags = append(tags, fields[len(fields)-1])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return sentences, nil
}
