// Package placeholder rewrites marker-delimited regions of a text document,
// such as <!-- NAME_START -->6,912<!-- NAME_END --> in a README.
package placeholder

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Layout controls how a value is placed between the markers.
type Layout string

const (
	// LayoutInline writes the value directly between the markers.
	LayoutInline Layout = "inline"
	// LayoutBlock puts the value on its own indented line, for use inside HTML blocks.
	LayoutBlock Layout = "block"
)

const (
	blockIndent    = "      "
	blockEndIndent = "    "
)

// ValidLayout reports whether l is a known layout.
func ValidLayout(l Layout) bool {
	return l == LayoutInline || l == LayoutBlock
}

// Markers returns the start and end marker tokens for a placeholder name.
func Markers(name string) (start, end string) {
	return fmt.Sprintf("<!-- %s_START -->", name), fmt.Sprintf("<!-- %s_END -->", name)
}

// span locates the interior of the first start marker and the nearest end
// marker after it. lo and hi are byte offsets of the interior.
func span(doc, name string) (lo, hi int, ok bool) {
	start, end := Markers(name)

	i := strings.Index(doc, start)
	if i < 0 {
		return 0, 0, false
	}
	lo = i + len(start)

	j := strings.Index(doc[lo:], end)
	if j < 0 {
		return 0, 0, false
	}
	return lo, lo + j, true
}

// Rewrite replaces the interior of the named placeholder with value.
// Only the bytes between the first start marker and the nearest following
// end marker change. When the pair is absent doc is returned unchanged and
// ok is false.
func Rewrite(doc, name, value string) (string, bool) {
	lo, hi, ok := span(doc, name)
	if !ok {
		return doc, false
	}

	var sb strings.Builder
	sb.Grow(len(doc) - (hi - lo) + len(value))
	sb.WriteString(doc[:lo])
	sb.WriteString(value)
	sb.WriteString(doc[hi:])
	return sb.String(), true
}

// Extract returns the current interior of the named placeholder.
func Extract(doc, name string) (string, bool) {
	lo, hi, ok := span(doc, name)
	if !ok {
		return "", false
	}
	return doc[lo:hi], true
}

// Interior renders a formatted count in the given layout.
func Interior(value string, layout Layout) string {
	if layout == LayoutBlock {
		return "\n" + blockIndent + value + "\n" + blockEndIndent
	}
	return value
}

// FormatCount renders n with comma thousands separators.
func FormatCount(n uint64) string {
	if n > math.MaxInt64 {
		return humanize.BigComma(new(big.Int).SetUint64(n))
	}
	return humanize.Comma(int64(n))
}

// ParseCount is the inverse of FormatCount. Surrounding whitespace is ignored
// so block-layout interiors parse too.
func ParseCount(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty count")
	}
	n, err := strconv.ParseUint(strings.ReplaceAll(s, ",", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse count %q: %w", s, err)
	}
	return n, nil
}
