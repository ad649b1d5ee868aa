package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/whisperbox/lifecycle"
	"github.com/kbukum/whisperbox/workload"
)

func newStartCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the speech-to-text service and wait until it is ready",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.provider.StartService(cmd.Context()); err != nil {
				return err
			}
			snap := app.provider.ServiceStatus()
			if snap.Endpoint != nil {
				fmt.Fprintf(app.out, "service running at %s\n", snap.Endpoint.BaseURL)
			} else {
				fmt.Fprintln(app.out, "service running")
			}
			return nil
		},
	}
}

func newStopCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the speech-to-text service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.provider.StopService(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(app.out, "service stopped")
			return nil
		},
	}
}

func newStatusCmd(app *appState) *cobra.Command {
	var logLines int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the service lifecycle state and endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap := app.provider.ServiceStatus()
			printSnapshot(app, snap)

			if logLines <= 0 {
				return nil
			}
			tailer, ok := app.provider.Controller().Manager().(workload.LogTailer)
			if !ok {
				return fmt.Errorf("the configured workload provider does not expose logs")
			}
			lines, err := tailer.TailLogs(cmd.Context(), logLines)
			if err != nil {
				return fmt.Errorf("tail service logs: %w", err)
			}
			fmt.Fprintln(app.out)
			for _, line := range lines {
				fmt.Fprintln(app.out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&logLines, "logs", 0, "Also print the last N service log lines")
	return cmd
}

func printSnapshot(app *appState, snap lifecycle.Snapshot) {
	fmt.Fprintf(app.out, "state:    %s\n", snap.State)
	if snap.Endpoint != nil {
		fmt.Fprintf(app.out, "endpoint: %s\n", snap.Endpoint.BaseURL)
	}
	if snap.Degraded {
		fmt.Fprintln(app.out, "degraded: liveness probe is stale or failing")
	}
	if snap.Err != "" {
		fmt.Fprintf(app.out, "error:    %s\n", snap.Err)
	}
}
