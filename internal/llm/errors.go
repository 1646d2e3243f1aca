package llm

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/marlowe-fi/centsible/internal/common"
)

// classifyStatus maps a provider HTTP failure onto the application error
// taxonomy so the fallback chain can decide whether another model is
// worth attempting.
func classifyStatus(provider string, status int, body string) error {
	lower := strings.ToLower(body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%s API error (status %d): %s: %w", provider, status, body, common.ErrUpstreamAuth)
	case status == http.StatusPaymentRequired || status == http.StatusTooManyRequests:
		return fmt.Errorf("%s API error (status %d): %s: %w", provider, status, body, common.ErrUpstreamQuota)
	case status == http.StatusNotFound,
		status == http.StatusBadRequest && strings.Contains(lower, "model"):
		return fmt.Errorf("%s API error (status %d): %s: %w", provider, status, body, common.ErrModelNotFound)
	default:
		return fmt.Errorf("%s API error (status %d): %s: %w", provider, status, body, common.ErrUpstreamUnavailable)
	}
}
