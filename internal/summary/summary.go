// Package summary maintains the bounded rolling digest of a user's
// financial history so the system never replays full conversations.
package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/marlowe-fi/centsible/internal/common"
	"github.com/marlowe-fi/centsible/internal/llm"
	"github.com/marlowe-fi/centsible/internal/model"
)

// excerptLimit caps how much of a raw message the degraded path folds in.
const excerptLimit = 240

const foldSystemPrompt = "You maintain a running summary of a user's financial history. " +
	"Respond with plain text only: no markdown, no preamble, no commentary."

// Updater folds new check-ins into the rolling summary.
type Updater struct {
	client    llm.Client
	logger    *slog.Logger
	modelID   string
	retryOpts common.RetryOptions
}

// NewUpdater creates a summary updater using the configured summary model.
func NewUpdater(client llm.Client, cfg llm.Config, logger *slog.Logger) *Updater {
	return &Updater{
		client:  client,
		modelID: cfg.SummaryModelName(),
		logger:  logger,
		retryOpts: common.RetryOptions{
			MaxAttempts:  2,
			InitialDelay: time.Second,
		},
	}
}

// Update folds a new check-in into the current summary and returns the
// new digest. The generative path replaces the summary verbatim; if the
// service is unavailable the degraded path appends a timestamped excerpt
// instead. The result never exceeds model.MaxSummaryLength.
func (u *Updater) Update(ctx context.Context, current string, checkIn *model.CheckIn, state *model.FinancialState) string {
	folded, err := u.fold(ctx, current, checkIn, state)
	if err != nil {
		u.logger.Warn("summary fold failed, using degraded append",
			"user_id", checkIn.UserID,
			"error", err)
		folded = appendExcerpt(current, checkIn)
	}
	return model.ClampSummary(folded)
}

func (u *Updater) fold(ctx context.Context, current string, checkIn *model.CheckIn, state *model.FinancialState) (string, error) {
	if u.modelID == "" {
		return "", fmt.Errorf("%w: no summary model configured", common.ErrMissingConfig)
	}

	prompt := buildFoldPrompt(current, checkIn, state)

	var folded string
	err := common.WithRetry(ctx, func() error {
		text, err := u.client.Complete(ctx, llm.Request{
			Model:  u.modelID,
			System: foldSystemPrompt,
			Prompt: prompt,
		})
		if err != nil {
			// Auth and quota failures won't clear up between attempts.
			return &common.RetryableError{Err: err, Retryable: isTransient(err)}
		}
		if strings.TrimSpace(text) == "" {
			return &common.RetryableError{Err: fmt.Errorf("empty summary returned"), Retryable: true}
		}
		folded = strings.TrimSpace(text)
		return nil
	}, u.retryOpts)
	if err != nil {
		return "", err
	}
	return folded, nil
}

func isTransient(err error) bool {
	return !errors.Is(err, common.ErrUpstreamAuth) && !errors.Is(err, common.ErrUpstreamQuota)
}

func buildFoldPrompt(current string, checkIn *model.CheckIn, state *model.FinancialState) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Fold the new check-in into the existing summary. Remove redundancy but preserve all financial facts, goals, and concerns. Keep the result under %d characters. Return plain text only.

Existing summary:
`, model.MaxSummaryLength)
	if current == "" {
		b.WriteString("(empty)\n")
	} else {
		b.WriteString(current)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nNew check-in (%s):\n%s\n", checkIn.CreatedAt.Format("2006-01-02"), checkIn.Message)

	if state != nil {
		fmt.Fprintf(&b, "\nCurrent snapshot: monthly income %.2f, monthly expenses %.2f, savings rate %.2f%%, %d accounts, %d debts, %d goals.\n",
			state.MonthlyIncome, state.MonthlyExpenses, state.SavingsRate,
			len(state.Accounts), len(state.Debts), len(state.Goals))
	}

	return b.String()
}

// appendExcerpt is the degraded path: a timestamped raw excerpt of the
// new message is appended and the clamp keeps the most recent tail.
func appendExcerpt(current string, checkIn *model.CheckIn) string {
	excerpt := strings.TrimSpace(checkIn.Message)
	if len(excerpt) > excerptLimit {
		cut := excerptLimit
		for cut > 0 && !utf8.RuneStart(excerpt[cut]) {
			cut--
		}
		excerpt = excerpt[:cut] + "..."
	}

	entry := fmt.Sprintf("[%s] %s", checkIn.CreatedAt.Format("2006-01-02"), excerpt)
	if current == "" {
		return entry
	}
	return current + "\n" + entry
}
