package synthesis

import "strings"

// intent is the heuristic classification of a check-in message. It seeds
// the default for plan regeneration; the service's own explicit flag,
// when parseable, takes precedence.
type intent int

const (
	intentUpdate intent = iota
	intentQuestion
	intentMonthlyReview
)

var questionPrefixes = []string{
	"how", "what", "why", "when", "where", "which",
	"should", "could", "would", "can", "do", "does",
	"is it", "am i", "are we",
}

var monthlyMarkers = []string{
	"monthly check",
	"monthly review",
	"monthly update",
	"checking in",
	"check-in",
	"end of month",
	"month in review",
	"this month's numbers",
}

// classifyIntent applies the interrogative and periodic-review marker
// heuristics. An explicit caller flag always makes it a monthly review.
func classifyIntent(message string, isMonthlyCheckIn bool) intent {
	if isMonthlyCheckIn {
		return intentMonthlyReview
	}

	lower := strings.ToLower(strings.TrimSpace(message))
	for _, marker := range monthlyMarkers {
		if strings.Contains(lower, marker) {
			return intentMonthlyReview
		}
	}

	if strings.Contains(lower, "?") {
		return intentQuestion
	}
	for _, prefix := range questionPrefixes {
		if strings.HasPrefix(lower, prefix+" ") {
			return intentQuestion
		}
	}

	return intentUpdate
}

// defaultShouldUpdatePlan maps the heuristic intent to the default plan
// regeneration decision.
func (i intent) defaultShouldUpdatePlan() bool {
	return i == intentMonthlyReview
}
