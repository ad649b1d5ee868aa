package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newModelsCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the available transcription models",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tPARAMS\tLANGUAGES\tTASKS")
			for _, info := range app.provider.Models() {
				languages := "multilingual"
				if !info.Multilingual {
					languages = "English only"
				}
				tasks := make([]string, 0, 2)
				for _, c := range info.Capabilities() {
					tasks = append(tasks, string(c))
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.ID, info.Parameters, languages, strings.Join(tasks, ", "))
			}
			return w.Flush()
		},
	}
}
