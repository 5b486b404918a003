package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/happyhackingspace/ner"
	"github.com/spf13/cobra"
)

func (c *CLI) newEvaluateCommand() *cobra.Command {
	var dataFolder string
	var workers int

	cmd := &cobra.Command{
		Use:   "evaluate <modelfile>",
		Short: "Score a trained model on a labeled test corpus",
		Args:  cobra.ExactArgs(1),
		Example: `  ner evaluate model.json --data-folder data/test.conll
  ner evaluate model.json --data-folder data --workers 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tagger, err := ner.Load(args[0])
			if err != nil {
				return err
			}
			sentences, err := ner.ReadTrainingData(dataFolder)
			if err != nil {
				return err
			}
			slog.Info("Evaluating", "model", args[0], "sentences", len(sentences))

			start := time.Now()
			result, err := tagger.Evaluate(sentences, &ner.EvalConfig{Workers: workers})
			if err != nil {
				return err
			}
			slog.Debug("Evaluation completed", "duration", time.Since(start))

			fmt.Printf("Precision: %.1f%% (%d/%d chunks)\n",
				result.Precision*100, result.CorrectChunks, result.PredictedChunks)
			fmt.Printf("Recall: %.1f%% (%d/%d chunks)\n",
				result.Recall*100, result.CorrectChunks, result.GoldChunks)
			fmt.Printf("F1: %.1f%%\n", result.F1*100)
			fmt.Printf("Token accuracy: %.1f%% (%d/%d tokens)\n",
				result.TokenAccuracy*100, result.CorrectTokens, result.TotalTokens)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataFolder, "data-folder", "data", "Path to labeled CoNLL corpus file or folder")
	cmd.Flags().IntVar(&workers, "workers", 0, "Decode pool size (0 = GOMAXPROCS)")
	return cmd
}
