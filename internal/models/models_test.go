package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectID(t *testing.T) {
	p := Project{Name: "CobblePass", Modrinth: "cobble-pass", CurseForge: "123456"}

	assert.Equal(t, "cobble-pass", p.ID(PlatformModrinth))
	assert.Equal(t, "123456", p.ID(PlatformCurseForge))
	assert.Equal(t, "", p.ID(Platform("planetminecraft")))
}

func TestTallyTotal(t *testing.T) {
	tally := Tally{Counts: []PlatformCount{
		{Platform: PlatformModrinth, Count: 1234},
		{Platform: PlatformCurseForge, Count: 5678},
	}}

	assert.Equal(t, uint64(6912), tally.Total())
	assert.Equal(t, uint64(1234), tally.Count(PlatformModrinth))
	assert.Equal(t, uint64(5678), tally.Count(PlatformCurseForge))
	assert.False(t, tally.Failed())
}

func TestTallyFailed(t *testing.T) {
	tally := Tally{Counts: []PlatformCount{
		{Platform: PlatformModrinth, Count: 10},
		{Platform: PlatformCurseForge, Err: errors.New("boom")},
	}}

	assert.True(t, tally.Failed())
	assert.Equal(t, uint64(10), tally.Total())
}

func TestTallyEmpty(t *testing.T) {
	assert.Equal(t, uint64(0), Tally{}.Total())
	assert.Equal(t, uint64(0), Tally{}.Count(PlatformModrinth))
}
