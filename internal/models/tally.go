package models

// PlatformCount is the download count reported by one platform.
// Count is always 0 when Err is set.
type PlatformCount struct {
	Platform Platform
	ID       string
	Count    uint64
	Err      error
	Skipped  bool
}

// Tally holds one count per platform for a project.
type Tally struct {
	Project Project
	Counts  []PlatformCount
}

// Total sums the per-platform counts.
func (t Tally) Total() uint64 {
	var total uint64
	for _, c := range t.Counts {
		total += c.Count
	}
	return total
}

// Count returns the count for a platform, or 0 if it was not fetched.
func (t Tally) Count(platform Platform) uint64 {
	for _, c := range t.Counts {
		if c.Platform == platform {
			return c.Count
		}
	}
	return 0
}

// Failed reports whether any platform fetch failed.
func (t Tally) Failed() bool {
	for _, c := range t.Counts {
		if c.Err != nil {
			return true
		}
	}
	return false
}
