package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/happyhackingspace/ner"
	"github.com/happyhackingspace/ner/corpus"
	"github.com/happyhackingspace/ner/crf"
	"github.com/happyhackingspace/ner/internal/textutil"
	"github.com/spf13/cobra"
)

const modelURL = "https://huggingface.co/datasets/happyhackingspace/ner/resolve/main/model.json"

// tagOutput is the JSON emitted per sentence.
type tagOutput struct {
	Tokens   []string    `json:"tokens"`
	Tags     []string    `json:"tags"`
	Entities []tagEntity `json:"entities"`
}

type tagEntity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

func (c *CLI) newTagCommand() *cobra.Command {
	var modelPath string
	var beamWidth int

	cmd := &cobra.Command{
		Use:   "tag [text-or-file]",
		Short: "Tag named entities in text, a file, or stdin",
		Args:  cobra.MaximumNArgs(1),
		Example: `  # Tag text directly
  ner tag "Alice lives in Paris"

  # Tag a text file, one sentence per line
  ner tag input.txt

  # Pipe text from stdin
  echo "Alice lives in Paris" | ner tag

  # Use a custom model file
  ner tag "Alice lives in Paris" --model custom.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			switch {
			case len(args) == 0:
				if isStdinTerminal() {
					return cmd.Help()
				}
				body, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(body)
			default:
				text = args[0]
				if data, err := os.ReadFile(text); err == nil {
					text = string(data)
				}
			}
			text = strings.TrimSpace(text)
			if text == "" {
				return fmt.Errorf("no input text")
			}

			start := time.Now()
			tagger, err := loadOrDownloadModel(modelPath)
			if err != nil {
				return err
			}
			slog.Debug("Model loaded", "duration", time.Since(start))

			decode := tagger.Tag
			if beamWidth > 0 {
				if m, ok := tagger.Model().(*crf.Model); ok {
					decode = func(tokens []corpus.Token) (*corpus.LabeledSentence, error) {
						return m.DecodeBeam(tokens, beamWidth)
					}
				} else {
					slog.Warn("Beam decoding only applies to CRF models, using exact decoding")
				}
			}

			var outputs []tagOutput
			for _, line := range strings.SplitAfter(text, "\n") {
				words := textutil.Tokenize(line)
				if len(words) == 0 {
					continue
				}
				tokens := make([]corpus.Token, len(words))
				for i, w := range words {
					tokens[i] = corpus.Token{Word: w, Pos: "-"}
				}
				sentence, err := decode(tokens)
				if err != nil {
					return err
				}
				outputs = append(outputs, formatSentence(sentence))
			}

			data, _ := json.MarshalIndent(outputs, "", "  ")
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "", "Path to model file (default: auto-detect or download)")
	cmd.Flags().IntVar(&beamWidth, "beam", 0, "Beam width for approximate CRF decoding (0 = exact Viterbi)")
	return cmd
}

func formatSentence(s *corpus.LabeledSentence) tagOutput {
	out := tagOutput{
		Tokens:   s.Words(),
		Tags:     s.BIOTags(),
		Entities: []tagEntity{},
	}
	for _, c := range s.Chunks {
		out.Entities = append(out.Entities, tagEntity{
			Text:  strings.Join(out.Tokens[c.Start:c.End], " "),
			Label: c.Label,
			Start: c.Start,
			End:   c.End,
		})
	}
	return out
}

func isStdinTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func loadOrDownloadModel(modelPath string) (*ner.Tagger, error) {
	if modelPath != "" {
		slog.Debug("Loading custom model", "path", modelPath)
		return ner.Load(modelPath)
	}

	tagger, err := ner.New()
	if err == nil {
		return tagger, nil
	}

	dest := filepath.Join(ner.ModelDir(), "model.json")
	if _, statErr := os.Stat(dest); statErr == nil {
		return ner.Load(dest)
	}
	slog.Info("Model not found, downloading", "url", modelURL, "dest", dest)

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return nil, fmt.Errorf("create model dir: %w", err)
	}

	resp, err := http.Get(modelURL)
	if err != nil {
		return nil, fmt.Errorf("download model: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download model: HTTP %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return nil, fmt.Errorf("create model file: %w", err)
	}

	written, err := io.Copy(f, resp.Body)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(dest)
		return nil, fmt.Errorf("download model: %w", err)
	}
	_ = f.Close()

	slog.Info("Model downloaded", "size", fmt.Sprintf("%.1fMB", float64(written)/1024/1024))
	return ner.Load(dest)
}
