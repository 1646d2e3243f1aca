package model

import (
	"time"
	"unicode/utf8"
)

// MaxSummaryLength bounds the rolling summary so context never grows
// past what a single generative call can carry.
const MaxSummaryLength = 5000

// SummaryMemory is the bounded rolling digest of a user's history.
type SummaryMemory struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
}

// ClampSummary truncates a summary to MaxSummaryLength, cutting from the
// head so the most recent information survives. The cut never splits a
// multi-byte rune.
func ClampSummary(s string) string {
	if len(s) <= MaxSummaryLength {
		return s
	}
	cut := s[len(s)-MaxSummaryLength:]
	for len(cut) > 0 && !utf8.RuneStart(cut[0]) {
		cut = cut[1:]
	}
	return cut
}
