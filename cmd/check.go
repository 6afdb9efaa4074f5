package cmd

import (
	"github.com/spf13/cobra"

	"github.com/joescharf/modcount/internal/output"
	"github.com/joescharf/modcount/internal/placeholder"
	"github.com/joescharf/modcount/internal/update"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Show the placeholders found in the document",
	Long:  "Read the document and list each project's placeholder with its current value. No network requests are made.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return checkRun()
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func checkRun() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	statuses, err := update.Inspect(cfg.Document, cfg.Projects)
	if err != nil {
		return err
	}

	ui.Info("Document: %s", cfg.Document)

	missing := 0
	table := ui.Table([]string{"Project", "Placeholder", "Current"})
	for _, st := range statuses {
		start, _ := placeholder.Markers(st.Project.Placeholder)
		var current string
		switch {
		case !st.Found:
			current = output.Yellow("missing")
			missing++
		case st.Err != nil:
			current = output.Red("not a count: ") + st.Raw
		default:
			current = placeholder.FormatCount(st.Count)
		}
		table.Append([]string{output.Cyan(st.Project.Name), start, current})
	}
	_ = table.Render()

	if missing > 0 {
		ui.Warning("%d placeholder(s) missing from %s", missing, cfg.Document)
	}
	return nil
}
