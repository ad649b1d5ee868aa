package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kbukum/whisperbox/transcribe"
	"github.com/kbukum/whisperbox/whisper"
)

func newTranscribeCmd(app *appState) *cobra.Command {
	var (
		modelID        string
		language       string
		task           string
		wordTimestamps bool
		jsonOut        bool
		startService   bool
	)

	cmd := &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: "Transcribe an audio file through the running service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedTask, err := parseTask(task)
			if err != nil {
				return err
			}

			audio, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read audio file: %w", err)
			}

			if startService {
				if err := app.provider.StartService(cmd.Context()); err != nil {
					return err
				}
			}

			model, err := app.provider.Model(modelID)
			if err != nil {
				return err
			}

			result, err := model.Transcribe(cmd.Context(), audio, filepath.Base(args[0]), &whisper.Options{
				Language:       language,
				Task:           parsedTask,
				WordTimestamps: wordTimestamps,
			})
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(app.out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			fmt.Fprintln(app.out, result.Text)
			app.log.Info("transcription finished", map[string]interface{}{
				"model":       result.ModelID,
				"language":    result.Language,
				"segments":    len(result.Segments),
				"duration_ms": result.ProcessingTimeMs,
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&modelID, "model", "", "Model to use (defaults to the configured model)")
	cmd.Flags().StringVar(&language, "language", "", "Expected audio language, or auto")
	cmd.Flags().StringVar(&task, "task", "", "Task: transcribe or translate")
	cmd.Flags().BoolVar(&wordTimestamps, "word-timestamps", false, "Request per-word timing")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the full result as JSON")
	cmd.Flags().BoolVar(&startService, "start", false, "Start the service first if it is not running")

	return cmd
}

func parseTask(task string) (transcribe.Task, error) {
	switch task {
	case "":
		return "", nil
	case string(transcribe.TaskTranscribe):
		return transcribe.TaskTranscribe, nil
	case string(transcribe.TaskTranslate):
		return transcribe.TaskTranslate, nil
	default:
		return "", fmt.Errorf("unknown task %q (expected transcribe or translate)", task)
	}
}
