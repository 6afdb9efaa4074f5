package update

import (
	"fmt"
	"os"
	"strings"

	"github.com/joescharf/modcount/internal/models"
	"github.com/joescharf/modcount/internal/placeholder"
)

// Status describes a placeholder as it currently appears in the document.
type Status struct {
	Project models.Project
	Found   bool
	Raw     string
	Count   uint64
	Err     error // set when the interior is not a count
}

// Inspect reads the document and reports the current value of each
// project's placeholder without touching the network.
func Inspect(path string, projects []models.Project) ([]Status, error) {
	if _, err := CheckDocument(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	content := string(data)
	statuses := make([]Status, 0, len(projects))
	for _, p := range projects {
		st := Status{Project: p}
		if raw, ok := placeholder.Extract(content, p.Placeholder); ok {
			st.Found = true
			st.Raw = trimInterior(raw)
			st.Count, st.Err = placeholder.ParseCount(raw)
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

func trimInterior(s string) string {
	return strings.TrimSpace(s)
}
