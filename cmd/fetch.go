package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/joescharf/modcount/internal/models"
	"github.com/joescharf/modcount/internal/tally"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [project...]",
	Short: "Fetch and print download counts without touching the document",
	Long: `Fetch download counts from every platform and print them.

With project names (or placeholder names), only those projects are fetched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return fetchRun(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func fetchRun(cmd *cobra.Command, names []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	projects := cfg.Projects
	if len(names) > 0 {
		projects = make([]models.Project, 0, len(names))
		for _, name := range names {
			p, err := projectByName(cfg.Projects, name)
			if err != nil {
				return err
			}
			projects = append(projects, p)
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	tallies := tally.CollectAll(ctx, projects, sourcesFunc(cfg), ui)

	table := ui.Table([]string{"Project", "Modrinth", "CurseForge", "Total"})
	for _, t := range tallies {
		table.Append(tallyRow(t))
	}
	_ = table.Render()
	return nil
}
