package synthesis

import (
	"context"
	"errors"

	"github.com/marlowe-fi/centsible/internal/common"
)

// chainDecision is the outcome of classifying one failed attempt.
type chainDecision int

const (
	// advanceModel moves to the next model in the ordered chain.
	advanceModel chainDecision = iota
	// abortChain stops immediately: further attempts cannot succeed.
	abortChain
)

// decideAttempt classifies a failed attempt. Only a rejected model
// identifier is worth retrying with the next model; authentication,
// quota, parse and network failures would fail identically on every
// model in the chain.
func decideAttempt(err error) chainDecision {
	if errors.Is(err, common.ErrModelNotFound) {
		return advanceModel
	}
	return abortChain
}

// failureClass buckets a terminal chain error for the degraded response.
func failureClass(err error) string {
	switch {
	case errors.Is(err, common.ErrUpstreamAuth):
		return FailureAuth
	case errors.Is(err, common.ErrUpstreamQuota):
		return FailureQuota
	case errors.Is(err, common.ErrParse):
		return FailureParse
	case errors.Is(err, common.ErrModelNotFound), errors.Is(err, common.ErrUpstreamUnavailable):
		return FailureUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	default:
		return FailureUnknown
	}
}

// degradedText is the human-readable explanation returned instead of a
// hard error when synthesis fails. The user's check-in is still recorded.
func degradedText(class string) string {
	switch class {
	case FailureAuth:
		return "I saved your update, but I couldn't reach the planning service because its credentials were rejected. Please check the configured API key and try again."
	case FailureQuota:
		return "I saved your update, but the planning service reported a rate or billing limit. Please try again in a little while."
	case FailureParse:
		return "I saved your update, but the planning service returned an answer I couldn't interpret. Your financial state was left unchanged; please try again."
	case FailureUnavailable:
		return "I saved your update, but none of the configured planning models were available. Your financial state was left unchanged; please try again later."
	case FailureTimeout:
		return "I saved your update, but the planning service took too long to respond. Please try again later."
	default:
		return "I saved your update, but something went wrong while generating a response. Your financial state was left unchanged; please try again."
	}
}
