package tally

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/modcount/internal/models"
	"github.com/joescharf/modcount/internal/source"
)

// fakeSource implements source.Source with canned results.
type fakeSource struct {
	platform models.Platform
	counts   map[string]uint64
	err      error
	calls    []string
}

func (f *fakeSource) Platform() models.Platform { return f.platform }

func (f *fakeSource) Count(ctx context.Context, id string) (uint64, error) {
	f.calls = append(f.calls, id)
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[id], nil
}

type testLogger struct {
	warnings []string
}

func (l *testLogger) VerboseLog(string, ...any) {}
func (l *testLogger) Warning(format string, a ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, a...))
}

var cobblePass = models.Project{
	Name:        "CobblePass",
	Placeholder: "COBBLEPASS_DOWNLOADS",
	Modrinth:    "cobble-pass",
	CurseForge:  "cobblemon-cobblepass",
}

func TestSum(t *testing.T) {
	assert.Equal(t, uint64(0), Sum())
	assert.Equal(t, uint64(6912), Sum(1234, 5678))
	assert.Equal(t, Sum(1234, 5678), Sum(5678, 1234))
	assert.Equal(t, uint64(42), Sum(42, 0))
	assert.Equal(t, uint64(42), Sum(0, 42))

	for _, pair := range [][2]uint64{{0, 0}, {1, 2}, {999, 1}, {1 << 40, 1 << 20}} {
		a, b := pair[0], pair[1]
		assert.Equal(t, a+b, Sum(a, b))
		assert.Equal(t, Sum(a, b), Sum(b, a))
	}
}

func TestCollect(t *testing.T) {
	mr := &fakeSource{platform: models.PlatformModrinth, counts: map[string]uint64{"cobble-pass": 1234}}
	cf := &fakeSource{platform: models.PlatformCurseForge, counts: map[string]uint64{"cobblemon-cobblepass": 5678}}
	log := &testLogger{}

	got := Collect(context.Background(), cobblePass, []source.Source{mr, cf}, log)

	require.Len(t, got.Counts, 2)
	assert.Equal(t, uint64(6912), got.Total())
	assert.Equal(t, []string{"cobble-pass"}, mr.calls)
	assert.Equal(t, []string{"cobblemon-cobblepass"}, cf.calls)
	assert.Empty(t, log.warnings)
	assert.False(t, got.Failed())
}

func TestCollect_FetchFailureFallsBackToZero(t *testing.T) {
	fetchErr := &source.FetchError{Platform: models.PlatformCurseForge, ID: "x", Err: errors.New("dial tcp: refused")}
	mr := &fakeSource{platform: models.PlatformModrinth, counts: map[string]uint64{"cobble-pass": 1234}}
	cf := &fakeSource{platform: models.PlatformCurseForge, err: fetchErr}
	log := &testLogger{}

	got := Collect(context.Background(), cobblePass, []source.Source{mr, cf}, log)

	assert.Equal(t, uint64(1234), got.Count(models.PlatformModrinth))
	assert.Equal(t, uint64(0), got.Count(models.PlatformCurseForge))
	assert.Equal(t, uint64(1234), got.Total())
	assert.True(t, got.Failed())
	require.Len(t, log.warnings, 1)
	assert.Contains(t, log.warnings[0], "refused")
}

func TestCollect_SkipsMissingIdentifier(t *testing.T) {
	p := cobblePass
	p.CurseForge = ""
	mr := &fakeSource{platform: models.PlatformModrinth, counts: map[string]uint64{"cobble-pass": 10}}
	cf := &fakeSource{platform: models.PlatformCurseForge}

	got := Collect(context.Background(), p, []source.Source{mr, cf}, &testLogger{})

	assert.Equal(t, uint64(10), got.Total())
	assert.Empty(t, cf.calls)
	assert.True(t, got.Counts[1].Skipped)
}

func TestCollectAll_PreservesOrder(t *testing.T) {
	sdex := models.Project{Name: "SimpleDexRewards", Modrinth: "sdex", CurseForge: "sdex"}
	mr := &fakeSource{platform: models.PlatformModrinth, counts: map[string]uint64{"cobble-pass": 1, "sdex": 2}}
	cf := &fakeSource{platform: models.PlatformCurseForge, counts: map[string]uint64{"cobblemon-cobblepass": 10, "sdex": 20}}

	got := CollectAll(context.Background(), []models.Project{cobblePass, sdex}, []source.Source{mr, cf}, &testLogger{})

	require.Len(t, got, 2)
	assert.Equal(t, "CobblePass", got[0].Project.Name)
	assert.Equal(t, uint64(11), got[0].Total())
	assert.Equal(t, uint64(22), got[1].Total())
	assert.Equal(t, []string{"cobble-pass", "sdex"}, mr.calls)
}
