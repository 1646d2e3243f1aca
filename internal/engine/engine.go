// Package engine orchestrates the check-in pipeline: validation, state
// loading, synthesis, merge, summary update and plan persistence.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/marlowe-fi/centsible/internal/common"
	"github.com/marlowe-fi/centsible/internal/merge"
	"github.com/marlowe-fi/centsible/internal/model"
	"github.com/marlowe-fi/centsible/internal/service"
	"github.com/marlowe-fi/centsible/internal/synthesis"
)

// CheckInEngine runs each check-in through a linear pipeline. A
// synthesis failure degrades the response but never fails the check-in;
// a persistence failure at any step is fatal for the request.
type CheckInEngine struct {
	storage    service.Storage
	synth      Synthesizer
	summarizer SummaryUpdater
	logger     *slog.Logger
	locks      *userLocks
}

// New creates a check-in engine with the given dependencies.
func New(storage service.Storage, synth Synthesizer, summarizer SummaryUpdater, logger *slog.Logger) *CheckInEngine {
	return &CheckInEngine{
		storage:    storage,
		synth:      synth,
		summarizer: summarizer,
		logger:     logger,
		locks:      newUserLocks(),
	}
}

// ProcessCheckIn handles one inbound check-in for a user.
func (e *CheckInEngine) ProcessCheckIn(ctx context.Context, userID string, req model.CheckInRequest) (*model.CheckInResult, error) {
	if userID == "" {
		return nil, common.NewValidationError("userId", "must be non-empty")
	}
	// Validation failure short-circuits: nothing is persisted.
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Check-ins for the same user are strictly serialized.
	unlock := e.locks.lock(userID)
	defer unlock()

	state, err := e.storage.GetOrCreateFinancialState(ctx, userID)
	if err != nil {
		return nil, err
	}
	summaryMemory, err := e.storage.GetOrCreateSummary(ctx, userID)
	if err != nil {
		return nil, err
	}
	previousPlan, err := e.storage.GetLatestPlan(ctx, userID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	checkIn := &model.CheckIn{
		ID:               uuid.NewString(),
		UserID:           userID,
		Message:          req.Message,
		MonthlyIncome:    req.MonthlyIncome,
		MonthlyExpenses:  req.MonthlyExpenses,
		IsMonthlyCheckIn: req.IsMonthlyCheckIn,
		CreatedAt:        now,
	}

	// The raw input is persisted before synthesis so it survives any
	// upstream failure.
	if err := e.storage.SaveCheckIn(ctx, checkIn); err != nil {
		return nil, err
	}

	result := e.synth.Synthesize(ctx, synthesis.Input{
		Message:          req.Message,
		ManualIncome:     req.MonthlyIncome,
		ManualExpenses:   req.MonthlyExpenses,
		IsMonthlyCheckIn: req.IsMonthlyCheckIn,
		State:            state,
		Summary:          summaryMemory.Content,
		PreviousPlan:     previousPlan,
	})
	if result.Degraded {
		e.logger.Warn("synthesis degraded, check-in continues",
			"user_id", userID,
			"check_in_id", checkIn.ID,
			"failure_class", result.FailureClass)
	}

	state, err = e.mergeAndSave(ctx, state, req, result)
	if err != nil {
		return nil, err
	}

	summaryMemory.Content = e.summarizer.Update(ctx, summaryMemory.Content, checkIn, state)
	summaryMemory.UpdatedAt = time.Now().UTC()
	if err := e.storage.SaveSummary(ctx, summaryMemory); err != nil {
		return nil, err
	}

	var plan *model.FinancialPlan
	if result.ShouldUpdatePlan && result.Plan != nil {
		plan = &model.FinancialPlan{
			ID:               uuid.NewString(),
			UserID:           userID,
			CheckInID:        checkIn.ID,
			BudgetAllocation: result.Plan.BudgetAllocation,
			SavingsStrategy:  result.Plan.SavingsStrategy,
			DebtStrategy:     result.Plan.DebtStrategy,
			GoalTimelines:    result.Plan.GoalTimelines,
			ActionItems:      result.Plan.ActionItems,
			Insights:         result.Plan.Insights,
			CreatedAt:        time.Now().UTC(),
		}
		if err := e.storage.SavePlan(ctx, plan); err != nil {
			return nil, err
		}
		e.logger.Info("plan regenerated",
			"user_id", userID,
			"check_in_id", checkIn.ID,
			"plan_id", plan.ID)
	}

	return &model.CheckInResult{
		CheckInID:    checkIn.ID,
		CreatedAt:    checkIn.CreatedAt,
		ResponseText: result.ResponseText,
		Plan:         plan,
	}, nil
}

// mergeAndSave applies extracted facts plus manual overrides to the
// state. Manual input always wins over model-extracted input. A delta
// that fails validation leaves the state untouched without failing the
// check-in.
func (e *CheckInEngine) mergeAndSave(ctx context.Context, state *model.FinancialState, req model.CheckInRequest, result *synthesis.Result) (*model.FinancialState, error) {
	delta := buildDelta(req, result)
	if delta.IsEmpty() {
		return state, nil
	}

	merged, err := merge.Apply(state, delta)
	if err != nil {
		if common.IsValidationError(err) {
			e.logger.Warn("rejected malformed delta, state unchanged",
				"user_id", state.UserID,
				"error", err)
			return state, nil
		}
		return nil, err
	}

	merged.UpdatedAt = time.Now().UTC()
	if err := e.storage.SaveFinancialState(ctx, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// buildDelta layers manual overrides on top of whatever the synthesizer
// extracted.
func buildDelta(req model.CheckInRequest, result *synthesis.Result) *model.FinancialDelta {
	delta := &model.FinancialDelta{}
	if result.Extracted != nil {
		copied := *result.Extracted
		delta = &copied
	}

	if req.MonthlyIncome != nil {
		delta.MonthlyIncome = req.MonthlyIncome
	}
	if len(req.MonthlyExpenses) > 0 {
		if delta.Expenses == nil {
			delta.Expenses = make(map[string]float64, len(req.MonthlyExpenses))
		} else {
			merged := make(map[string]float64, len(delta.Expenses)+len(req.MonthlyExpenses))
			for k, v := range delta.Expenses {
				merged[k] = v
			}
			delta.Expenses = merged
		}
		for category, amount := range req.MonthlyExpenses {
			delta.Expenses[category] = amount
		}
	}
	return delta
}

// EraseUserData deletes everything stored for a user.
func (e *CheckInEngine) EraseUserData(ctx context.Context, userID string) error {
	if userID == "" {
		return common.NewValidationError("userId", "must be non-empty")
	}

	unlock := e.locks.lock(userID)
	defer unlock()

	if err := e.storage.EraseUserData(ctx, userID); err != nil {
		return err
	}
	e.logger.Info("user data erased", "user_id", userID)
	return nil
}
