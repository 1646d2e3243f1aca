package summary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlowe-fi/centsible/internal/common"
	"github.com/marlowe-fi/centsible/internal/llm"
	"github.com/marlowe-fi/centsible/internal/model"
)

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(logWriter{t}, nil))
}

type logWriter struct{ t *testing.T }

func (w logWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func newUpdater(t *testing.T, client llm.Client) *Updater {
	t.Helper()
	u := NewUpdater(client, llm.Config{Models: []string{"model-large", "model-small"}}, testLogger(t))
	u.retryOpts.InitialDelay = time.Millisecond
	return u
}

func testCheckIn(message string) *model.CheckIn {
	return &model.CheckIn{
		ID:        "ci-1",
		UserID:    "user-1",
		Message:   message,
		CreatedAt: time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestUpdateFoldsViaService(t *testing.T) {
	mock := llm.NewMockClient(llm.MockResponse{Text: "User is paying down a credit card; income 5000/month."})
	u := newUpdater(t, mock)

	got := u.Update(context.Background(), "Old digest.", testCheckIn("Paid 200 extra on the card"), nil)

	assert.Equal(t, "User is paying down a credit card; income 5000/month.", got)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	// Cheapest chain entry handles summary folding.
	assert.Equal(t, "model-small", calls[0].Model)
	assert.Contains(t, calls[0].Prompt, "Old digest.")
	assert.Contains(t, calls[0].Prompt, "Paid 200 extra on the card")
}

func TestUpdateExplicitSummaryModel(t *testing.T) {
	mock := llm.NewMockClient(llm.MockResponse{Text: "digest"})
	u := NewUpdater(mock, llm.Config{
		Models:       []string{"model-large"},
		SummaryModel: "model-cheap",
	}, testLogger(t))

	u.Update(context.Background(), "", testCheckIn("hello there"), nil)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "model-cheap", calls[0].Model)
}

func TestUpdateRetriesTransientFailure(t *testing.T) {
	mock := llm.NewMockClient(
		llm.MockResponse{Err: fmt.Errorf("%w: 503", common.ErrUpstreamUnavailable)},
		llm.MockResponse{Text: "Fresh digest."},
	)
	u := newUpdater(t, mock)

	got := u.Update(context.Background(), "old", testCheckIn("update"), nil)

	assert.Equal(t, "Fresh digest.", got)
	assert.Len(t, mock.Calls(), 2)
}

func TestUpdateDoesNotRetryAuthFailure(t *testing.T) {
	mock := llm.NewMockClient(llm.MockResponse{Err: fmt.Errorf("%w: key rejected", common.ErrUpstreamAuth)})
	u := newUpdater(t, mock)

	got := u.Update(context.Background(), "Existing summary.", testCheckIn("Paid 200 extra on the card"), nil)

	// Degraded path: the excerpt is appended, nothing is lost.
	assert.Equal(t, "Existing summary.\n[2026-08-15] Paid 200 extra on the card", got)
	assert.Len(t, mock.Calls(), 1)
}

func TestUpdateDegradedAppendFromEmpty(t *testing.T) {
	mock := llm.NewMockClient(llm.MockResponse{Err: fmt.Errorf("%w", common.ErrUpstreamUnavailable)})
	u := newUpdater(t, mock)

	got := u.Update(context.Background(), "", testCheckIn("First ever update"), nil)

	assert.Equal(t, "[2026-08-15] First ever update", got)
}

func TestUpdateDegradedTruncatesLongMessage(t *testing.T) {
	mock := llm.NewMockClient(llm.MockResponse{Err: fmt.Errorf("%w", common.ErrUpstreamUnavailable)})
	u := newUpdater(t, mock)

	long := strings.Repeat("x", excerptLimit+100)
	got := u.Update(context.Background(), "", testCheckIn(long), nil)

	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Less(t, len(got), excerptLimit+50)
}

func TestUpdateDegradedTruncationKeepsRuneBoundary(t *testing.T) {
	mock := llm.NewMockClient(llm.MockResponse{Err: fmt.Errorf("%w", common.ErrUpstreamUnavailable)})
	u := newUpdater(t, mock)

	// The leading ASCII byte puts the cut point in the middle of a rune.
	long := "x" + strings.Repeat("é", excerptLimit)
	got := u.Update(context.Background(), "", testCheckIn(long), nil)

	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestUpdateNeverExceedsBound(t *testing.T) {
	// Whether the service answers or fails, the returned digest stays
	// within the storage bound.
	oversized := strings.Repeat("a", model.MaxSummaryLength+500)

	tests := []struct {
		name string
		mock *llm.MockClient
	}{
		{"oversized fold result", llm.NewMockClient(llm.MockResponse{Text: oversized})},
		{"degraded append to full summary", llm.NewMockClient(llm.MockResponse{Err: fmt.Errorf("%w", common.ErrUpstreamUnavailable)})},
	}

	current := strings.Repeat("b", model.MaxSummaryLength)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := newUpdater(t, tt.mock)
			got := u.Update(context.Background(), current, testCheckIn("another month, another update"), nil)
			assert.LessOrEqual(t, len(got), model.MaxSummaryLength)
			assert.NotEmpty(t, got)
		})
	}
}

func TestUpdateNoSummaryModelConfigured(t *testing.T) {
	mock := llm.NewMockClient(llm.MockResponse{Text: "never used"})
	u := NewUpdater(mock, llm.Config{}, testLogger(t))

	got := u.Update(context.Background(), "", testCheckIn("hello"), nil)

	assert.Equal(t, "[2026-08-15] hello", got)
	assert.Empty(t, mock.Calls())
}
