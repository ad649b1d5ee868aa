// Package cli implements the whisperbox command line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbukum/whisperbox/config"
	"github.com/kbukum/whisperbox/logger"
	"github.com/kbukum/whisperbox/version"
	"github.com/kbukum/whisperbox/whisper"
)

// appState carries flag values and the wired provider across commands. The
// function seams exist so tests can substitute configuration loading and
// provider construction.
type appState struct {
	configFile string
	envFile    string
	logLevel   string
	jsonLogs   bool

	cfg      *config.Config
	log      *logger.Logger
	provider *whisper.Provider
	out      io.Writer

	loadFn     func(opts ...config.LoaderOption) (*config.Config, error)
	providerFn func(cfg whisper.Config, log *logger.Logger) (*whisper.Provider, error)
}

// NewRootCmd builds the whisperbox command tree.
func NewRootCmd() *cobra.Command {
	app := &appState{
		out:        os.Stdout,
		loadFn:     config.Load,
		providerFn: whisper.New,
	}

	cmd := &cobra.Command{
		Use:           "whisperbox",
		Short:         "Manage and query a containerized speech-to-text service",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Resolve(),
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return app.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if app.provider == nil {
				return nil
			}
			// Releases local handles only; a started service keeps running.
			return app.provider.Close(cmd.Context())
		},
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	cmd.PersistentFlags().StringVar(&app.configFile, "config", "", "Path to config.yml")
	cmd.PersistentFlags().StringVar(&app.envFile, "env-file", "", "Path to .env file")
	cmd.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "Override the configured log level")
	cmd.PersistentFlags().BoolVar(&app.jsonLogs, "json-logs", false, "Log in JSON format")

	cmd.AddCommand(newStartCmd(app))
	cmd.AddCommand(newStopCmd(app))
	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newModelsCmd(app))
	cmd.AddCommand(newTranscribeCmd(app))

	return cmd
}

// setup loads configuration, initializes logging and wires the provider.
func (app *appState) setup() error {
	var opts []config.LoaderOption
	if app.configFile != "" {
		opts = append(opts, config.WithConfigFile(app.configFile))
	}
	if app.envFile != "" {
		opts = append(opts, config.WithEnvFile(app.envFile))
	}

	cfg, err := app.loadFn(opts...)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if app.logLevel != "" {
		cfg.Logging.Level = app.logLevel
	}
	if app.jsonLogs {
		cfg.Logging.Format = "json"
		cfg.Logging.Output = "stderr"
	}

	logger.Init(cfg.Logging)
	app.cfg = cfg
	app.log = logger.Get("cli")

	p, err := app.providerFn(cfg.Whisper, logger.GetGlobalLogger())
	if err != nil {
		return fmt.Errorf("initialize whisper provider: %w", err)
	}
	app.provider = p
	return nil
}
