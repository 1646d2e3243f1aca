package synthesis

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/marlowe-fi/centsible/internal/llm"
	"github.com/marlowe-fi/centsible/internal/model"
)

// Synthesizer drives the generative service over an ordered model
// fallback chain. Attempts are strictly sequential, one model at a time.
type Synthesizer struct {
	client  llm.Client
	limiter *llm.RateLimiter
	logger  *slog.Logger
	models  []string
	timeout time.Duration
}

// New creates a synthesizer from an injected client and configuration.
func New(client llm.Client, cfg llm.Config, logger *slog.Logger) *Synthesizer {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Synthesizer{
		client:  client,
		models:  cfg.ChainModels(),
		timeout: timeout,
		limiter: llm.NewRateLimiter(cfg.RateLimit),
		logger:  logger,
	}
}

// Synthesize runs one check-in through the fallback chain. It never
// returns an error: upstream failures are contained here and surfaced as
// a degraded result with an explanatory response text.
func (s *Synthesizer) Synthesize(ctx context.Context, in Input) *Result {
	if len(s.models) == 0 {
		s.logger.Error("no models configured for synthesis")
		return degradedResult(FailureUnavailable)
	}

	prompt := buildPrompt(in)
	defaultUpdate := classifyIntent(in.Message, in.IsMonthlyCheckIn).defaultShouldUpdatePlan()

	var lastErr error
	for _, modelID := range s.models {
		if err := s.limiter.Wait(ctx); err != nil {
			s.logger.Warn("rate limiter interrupted", "error", err)
			return degradedResult(FailureUnknown)
		}

		s.logger.Debug("attempting synthesis", "model", modelID)

		attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
		text, err := s.client.Complete(attemptCtx, llm.Request{
			Model:  modelID,
			System: systemPrompt,
			Prompt: prompt,
		})
		cancel()

		if err == nil {
			var resp *planResponse
			resp, err = parseResponse(text)
			if err == nil {
				result := s.buildResult(resp, in, defaultUpdate)
				s.logger.Info("synthesis succeeded",
					"model", modelID,
					"should_update_plan", result.ShouldUpdatePlan,
					"extracted", !result.Extracted.IsEmpty())
				return result
			}
		}

		lastErr = err
		if decideAttempt(err) == abortChain {
			class := failureClass(err)
			s.logger.Warn("synthesis aborted",
				"model", modelID,
				"failure_class", class,
				"error", err)
			return degradedResult(class)
		}

		s.logger.Warn("model unavailable, trying next in chain",
			"model", modelID,
			"error", err)
	}

	s.logger.Warn("all fallback models exhausted", "error", lastErr)
	return degradedResult(FailureUnavailable)
}

// buildResult converts a parsed response into a Result, applying the
// intent default when the service did not state an explicit flag and
// sanity-checking the numbers on the way back in.
func (s *Synthesizer) buildResult(resp *planResponse, in Input, defaultUpdate bool) *Result {
	result := &Result{
		ResponseText:     *resp.Response,
		ShouldUpdatePlan: defaultUpdate,
	}
	if resp.ShouldUpdatePlan != nil {
		result.ShouldUpdatePlan = *resp.ShouldUpdatePlan
	}

	if resp.ExtractedFinancialData != nil {
		result.Extracted = resp.ExtractedFinancialData.toDelta()
	}

	if result.ShouldUpdatePlan {
		// The parser only enforces a budget allocation when the service
		// stated the flag itself. When the intent default seeded true,
		// an answer without plan content must not replace the current
		// plan with an empty one.
		if resp.ShouldUpdatePlan == nil && len(resp.BudgetAllocation) == 0 {
			result.ShouldUpdatePlan = false
			return result
		}
		result.Plan = &PlanDraft{
			BudgetAllocation: resp.BudgetAllocation,
			SavingsStrategy:  resp.SavingsStrategy,
			DebtStrategy:     resp.DebtStrategy,
			GoalTimelines:    resp.GoalTimelines,
			ActionItems:      resp.ActionItems,
			Insights:         resp.Insights,
		}
		s.checkBudgetSum(result.Plan, in)
	}

	return result
}

// checkBudgetSum warns when the allocation drifts far from monthly
// income. The plan is still returned; the drift is advisory.
func (s *Synthesizer) checkBudgetSum(plan *PlanDraft, in Input) {
	income := 0.0
	if in.State != nil {
		income = in.State.MonthlyIncome
	}
	if in.ManualIncome != nil {
		income = *in.ManualIncome
	}
	if income <= 0 {
		return
	}

	total := model.SumAmounts(plan.BudgetAllocation)
	if math.Abs(total-income)/income > 0.25 {
		s.logger.Warn("budget allocation far from monthly income",
			"allocated", total,
			"income", income)
	}
}

func degradedResult(class string) *Result {
	return &Result{
		ResponseText:     degradedText(class),
		ShouldUpdatePlan: false,
		Degraded:         true,
		FailureClass:     class,
	}
}

// Close releases the rate limiter's background goroutine.
func (s *Synthesizer) Close() {
	if s.limiter != nil {
		s.limiter.Close()
	}
}
