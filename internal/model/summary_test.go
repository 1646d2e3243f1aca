package model

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestClampSummary(t *testing.T) {
	short := "income rose to 6k in March"
	assert.Equal(t, short, ClampSummary(short))

	long := strings.Repeat("a", MaxSummaryLength-10) + "RECENT-TAIL"
	clamped := ClampSummary(long)
	assert.Len(t, clamped, MaxSummaryLength)
	// The most recent information survives the cut.
	assert.True(t, strings.HasSuffix(clamped, "RECENT-TAIL"))

	exact := strings.Repeat("b", MaxSummaryLength)
	assert.Equal(t, exact, ClampSummary(exact))
}

func TestClampSummaryKeepsRuneBoundary(t *testing.T) {
	// Multi-byte runes straddling the cut point are dropped whole, never
	// split into invalid bytes.
	// Three-byte runes guarantee the naive cut point lands mid-rune.
	long := strings.Repeat("€", MaxSummaryLength)
	clamped := ClampSummary(long)

	assert.True(t, utf8.ValidString(clamped))
	assert.LessOrEqual(t, len(clamped), MaxSummaryLength)
	assert.True(t, strings.HasSuffix(clamped, "€"))
}
