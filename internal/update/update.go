package update

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/joescharf/modcount/internal/models"
	"github.com/joescharf/modcount/internal/placeholder"
	"github.com/joescharf/modcount/internal/source"
	"github.com/joescharf/modcount/internal/tally"
)

// ErrDocumentMissing is returned when the target document does not exist.
var ErrDocumentMissing = errors.New("document not found")

// Logger is the subset of output.UI used while updating.
type Logger interface {
	source.Logger
	Info(format string, a ...any)
	DryRunMsg(format string, a ...any)
}

// Options controls a single update run.
type Options struct {
	Document string
	Layout   placeholder.Layout
	DryRun   bool
}

// Result is the outcome for one project's placeholder.
type Result struct {
	Tally    models.Tally
	Found    bool
	Previous string // trimmed interior before the rewrite
	Value    string // formatted total written
	Changed  bool
}

// Report summarizes a run.
type Report struct {
	RunID    string
	Document string
	Results  []Result
	Written  bool
}

// Total is the grand total across all projects.
func (r *Report) Total() uint64 {
	counts := make([]uint64, 0, len(r.Results))
	for _, res := range r.Results {
		counts = append(counts, res.Tally.Total())
	}
	return tally.Sum(counts...)
}

// Changed reports whether any placeholder received a new value.
func (r *Report) Changed() bool {
	for _, res := range r.Results {
		if res.Changed {
			return true
		}
	}
	return false
}

// Found counts the placeholders located in the document.
func (r *Report) Found() int {
	n := 0
	for _, res := range r.Results {
		if res.Found {
			n++
		}
	}
	return n
}

// newRunID generates a ULID identifying one run in logs.
func newRunID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}

// CheckDocument fails fast when the document is absent or is a directory.
func CheckDocument(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrDocumentMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("stat document: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("document %s is a directory", path)
	}
	return info, nil
}

// Run fetches counts for every project, rewrites their placeholders, and
// writes the document back once. Fetch failures contribute 0 and never fail
// the run; a missing document fails before any request is made.
func Run(ctx context.Context, opts Options, projects []models.Project, sources []source.Source, log Logger) (*Report, error) {
	info, err := CheckDocument(opts.Document)
	if err != nil {
		return nil, err
	}

	report := &Report{RunID: newRunID(), Document: opts.Document}
	log.VerboseLog("Run %s: %d project(s), document %s", report.RunID, len(projects), opts.Document)

	tallies := tally.CollectAll(ctx, projects, sources, log)

	data, err := os.ReadFile(opts.Document)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	content, results := Apply(string(data), tallies, opts.Layout, log)
	report.Results = results

	if !report.Changed() {
		if report.Found() == 0 {
			log.Warning("No placeholders found in %s", opts.Document)
		} else {
			log.Info("%s already up to date", opts.Document)
		}
		return report, nil
	}

	if opts.DryRun {
		log.DryRunMsg("Would update %s", opts.Document)
		return report, nil
	}

	if err := os.WriteFile(opts.Document, []byte(content), info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}
	report.Written = true
	return report, nil
}

// Apply rewrites the placeholder of each tally in order and returns the new
// content. Missing placeholders are left alone with a warning.
func Apply(content string, tallies []models.Tally, layout placeholder.Layout, log Logger) (string, []Result) {
	results := make([]Result, 0, len(tallies))

	for _, t := range tallies {
		name := t.Project.Placeholder
		res := Result{Tally: t, Value: placeholder.FormatCount(t.Total())}

		if prev, ok := placeholder.Extract(content, name); ok {
			res.Previous = trimInterior(prev)
		}

		updated, ok := placeholder.Rewrite(content, name, placeholder.Interior(res.Value, layout))
		if !ok {
			start, _ := placeholder.Markers(name)
			log.Warning("%s: placeholder %s not found, skipping", t.Project.Name, start)
			results = append(results, res)
			continue
		}

		res.Found = true
		res.Changed = updated != content
		content = updated
		results = append(results, res)
	}

	return content, results
}
