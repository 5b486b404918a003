package cli

import (
	"log/slog"
	"time"

	"github.com/happyhackingspace/ner"
	"github.com/spf13/cobra"
)

func (c *CLI) newTrainCommand() *cobra.Command {
	var dataFolder string
	var modelType string
	var configFile string

	cmd := &cobra.Command{
		Use:   "train <modelfile>",
		Short: "Train a tagger on a CoNLL-style corpus",
		Args:  cobra.ExactArgs(1),
		Example: `  ner train model.json --data-folder data
  ner train model.json --type crf
  ner train model.json --type crf --config train.yaml -v`,
		RunE: func(cmd *cobra.Command, args []string) error {
			modelPath := args[0]

			config := ner.DefaultTrainConfig(modelType)
			if configFile != "" {
				loaded, err := ner.LoadTrainConfig(configFile)
				if err != nil {
					return err
				}
				if loaded.Model == "" {
					loaded.Model = modelType
				}
				config = loaded
			}

			slog.Info("Training tagger", "data-folder", dataFolder, "model", config.Model, "output", modelPath)
			start := time.Now()
			tagger, err := ner.Train(dataFolder, config)
			if err != nil {
				return err
			}
			slog.Debug("Training completed", "duration", time.Since(start))
			if err := tagger.Save(modelPath); err != nil {
				return err
			}
			slog.Info("Model saved", "path", modelPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataFolder, "data-folder", "data", "Path to CoNLL corpus file or folder")
	cmd.Flags().StringVar(&modelType, "type", "hmm", "Model type: hmm or crf")
	cmd.Flags().StringVar(&configFile, "config", "", "Path to YAML training config")
	return cmd
}
