package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joescharf/modcount/internal/models"
	"github.com/joescharf/modcount/internal/output"
	"github.com/joescharf/modcount/internal/placeholder"
	"github.com/joescharf/modcount/internal/update"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch download counts and rewrite the document",
	Long: `Fetch download counts for every configured project, sum them across
platforms, and rewrite each project's placeholder in the document.

A platform that cannot be reached counts as 0; the document is still
updated with the best available totals.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateRun(cmd)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func updateRun(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	opts := update.Options{
		Document: cfg.Document,
		Layout:   cfg.Layout,
		DryRun:   dryRun,
	}
	report, err := update.Run(ctx, opts, cfg.Projects, sourcesFunc(cfg), ui)
	if err != nil {
		return err
	}

	renderReport(report)

	if report.Written {
		ui.Success("Updated %s (%s total downloads)", report.Document, placeholder.FormatCount(report.Total()))
	}
	return nil
}

func renderReport(report *update.Report) {
	table := ui.Table([]string{"Project", "Modrinth", "CurseForge", "Total", "Document"})
	for _, res := range report.Results {
		table.Append(tallyRow(res.Tally, output.ChangeColor(res.Found, res.Changed, res.Previous, res.Value)))
	}
	_ = table.Render()
}

// tallyRow formats a tally as table cells, followed by any extra columns.
func tallyRow(t models.Tally, extra ...string) []string {
	row := []string{output.Cyan(t.Project.Name)}
	for _, platform := range models.Platforms {
		cell := "-"
		for _, c := range t.Counts {
			if c.Platform == platform {
				cell = output.PlatformCountCell(c)
			}
		}
		row = append(row, cell)
	}
	row = append(row, placeholder.FormatCount(t.Total()))
	return append(row, extra...)
}

// projectByName finds a configured project, case-insensitively.
func projectByName(projects []models.Project, name string) (models.Project, error) {
	for _, p := range projects {
		if strings.EqualFold(p.Name, name) || strings.EqualFold(p.Placeholder, name) {
			return p, nil
		}
	}
	return models.Project{}, fmt.Errorf("unknown project %q", name)
}
