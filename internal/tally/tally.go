package tally

import (
	"context"

	"github.com/joescharf/modcount/internal/models"
	"github.com/joescharf/modcount/internal/source"
)

// Sum adds per-platform counts.
func Sum(counts ...uint64) uint64 {
	var total uint64
	for _, c := range counts {
		total += c
	}
	return total
}

// Collect fetches every source for a project, one after another.
// A failed fetch is logged and contributes 0; it never aborts the tally.
// Platforms without an identifier on the project are skipped.
func Collect(ctx context.Context, p models.Project, sources []source.Source, log source.Logger) models.Tally {
	t := models.Tally{Project: p}

	for _, src := range sources {
		platform := src.Platform()
		pc := models.PlatformCount{Platform: platform, ID: p.ID(platform)}

		if pc.ID == "" {
			pc.Skipped = true
			log.VerboseLog("%s: no %s identifier, skipping", p.Name, platform)
			t.Counts = append(t.Counts, pc)
			continue
		}

		log.VerboseLog("Fetching %s downloads for %s (%s)", platform, p.Name, pc.ID)
		n, err := src.Count(ctx, pc.ID)
		if err != nil {
			log.Warning("%s: %v (counting 0)", p.Name, err)
			pc.Err = err
		} else {
			pc.Count = n
			log.VerboseLog("%s %s downloads: %d", p.Name, platform, n)
		}
		t.Counts = append(t.Counts, pc)
	}

	return t
}

// CollectAll tallies each project in order.
func CollectAll(ctx context.Context, projects []models.Project, sources []source.Source, log source.Logger) []models.Tally {
	tallies := make([]models.Tally, 0, len(projects))
	for _, p := range projects {
		tallies = append(tallies, Collect(ctx, p, sources, log))
	}
	return tallies
}
