package placeholder

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkers(t *testing.T) {
	start, end := Markers("COBBLEPASS_DOWNLOADS")
	assert.Equal(t, "<!-- COBBLEPASS_DOWNLOADS_START -->", start)
	assert.Equal(t, "<!-- COBBLEPASS_DOWNLOADS_END -->", end)
}

func TestRewrite(t *testing.T) {
	doc := "# Mod\n\nDownloads: <!-- X_START -->old<!-- X_END -->\n"

	got, ok := Rewrite(doc, "X", "6,912")
	require.True(t, ok)
	assert.Equal(t, "# Mod\n\nDownloads: <!-- X_START -->6,912<!-- X_END -->\n", got)
}

func TestRewrite_EmptyInterior(t *testing.T) {
	got, ok := Rewrite("<!-- X_START --><!-- X_END -->", "X", "42")
	require.True(t, ok)
	assert.Equal(t, "<!-- X_START -->42<!-- X_END -->", got)
}

func TestRewrite_Missing(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no markers", "# Nothing here\n"},
		{"start only", "<!-- X_START -->old"},
		{"end only", "old<!-- X_END -->"},
		{"end before start", "<!-- X_END -->old<!-- X_START -->"},
		{"other placeholder", "<!-- Y_START -->1<!-- Y_END -->"},
		{"empty doc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Rewrite(tt.doc, "X", "99")
			assert.False(t, ok)
			assert.Equal(t, tt.doc, got)
		})
	}
}

func TestRewrite_NonInterference(t *testing.T) {
	doc := strings.Join([]string{
		"intro",
		"<!-- A_START -->1<!-- A_END -->",
		"middle text that must survive",
		"<!-- B_START -->2<!-- B_END -->",
		"outro",
	}, "\n")

	got, ok := Rewrite(doc, "A", "100")
	require.True(t, ok)

	want := strings.Replace(doc, "<!-- A_START -->1<!-- A_END -->", "<!-- A_START -->100<!-- A_END -->", 1)
	assert.Equal(t, want, got)
	assert.Contains(t, got, "middle text that must survive")
	assert.Contains(t, got, "<!-- B_START -->2<!-- B_END -->")
}

func TestRewrite_NearestEndMarker(t *testing.T) {
	// A second A pair later in the document must not be consumed.
	doc := "<!-- A_START -->1<!-- A_END -->\nkeep\n<!-- A_START -->2<!-- A_END -->"

	got, ok := Rewrite(doc, "A", "9")
	require.True(t, ok)
	assert.Equal(t, "<!-- A_START -->9<!-- A_END -->\nkeep\n<!-- A_START -->2<!-- A_END -->", got)
}

func TestRewrite_PrefixNames(t *testing.T) {
	doc := "<!-- AB_START -->1<!-- AB_END --> <!-- A_START -->2<!-- A_END -->"

	got, ok := Rewrite(doc, "A", "3")
	require.True(t, ok)
	assert.Equal(t, "<!-- AB_START -->1<!-- AB_END --> <!-- A_START -->3<!-- A_END -->", got)
}

func TestRewrite_Idempotent(t *testing.T) {
	doc := "a <!-- X_START -->old<!-- X_END --> b <!-- Y_START -->keep<!-- Y_END -->"

	once, _ := Rewrite(doc, "X", "1,234")
	twice, _ := Rewrite(once, "X", "1,234")
	assert.Equal(t, once, twice)
}

func TestRewrite_Multiline(t *testing.T) {
	doc := "<div>\n    <!-- X_START -->\n      1,000\n    <!-- X_END -->\n</div>\n"

	got, ok := Rewrite(doc, "X", Interior("2,500", LayoutBlock))
	require.True(t, ok)
	assert.Equal(t, "<div>\n    <!-- X_START -->\n      2,500\n    <!-- X_END -->\n</div>\n", got)
}

func TestExtract(t *testing.T) {
	doc := "x <!-- X_START -->6,912<!-- X_END --> y"

	v, ok := Extract(doc, "X")
	require.True(t, ok)
	assert.Equal(t, "6,912", v)

	_, ok = Extract(doc, "Y")
	assert.False(t, ok)
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{6912, "6,912"},
		{1234567, "1,234,567"},
		{math.MaxUint64, "18,446,744,073,709,551,615"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCount(tt.in))
		})
	}
}

func TestParseCount(t *testing.T) {
	n, err := ParseCount("\n      6,912\n    ")
	require.NoError(t, err)
	assert.Equal(t, uint64(6912), n)

	n, err = ParseCount("6912")
	require.NoError(t, err)
	assert.Equal(t, uint64(6912), n)

	_, err = ParseCount("")
	assert.Error(t, err)

	_, err = ParseCount("lots")
	assert.Error(t, err)

	_, err = ParseCount("-5")
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	values := []uint64{0, 7, 1000, 6912, 1234567890, math.MaxInt64, math.MaxUint64}
	doc := "before <!-- X_START -->old<!-- X_END --> after"

	for _, layout := range []Layout{LayoutInline, LayoutBlock} {
		for _, v := range values {
			got, ok := Rewrite(doc, "X", Interior(FormatCount(v), layout))
			require.True(t, ok)

			interior, ok := Extract(got, "X")
			require.True(t, ok)

			parsed, err := ParseCount(interior)
			require.NoError(t, err)
			assert.Equal(t, v, parsed, "layout %s", layout)
		}
	}
}

func TestValidLayout(t *testing.T) {
	assert.True(t, ValidLayout(LayoutInline))
	assert.True(t, ValidLayout(LayoutBlock))
	assert.False(t, ValidLayout(Layout("table")))
}
