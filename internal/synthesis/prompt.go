package synthesis

import (
	"encoding/json"
	"fmt"
	"strings"
)

const systemPrompt = "You are a personal financial coach. You MUST respond with ONLY a valid JSON object. " +
	"Do not include any explanatory text, markdown formatting, or commentary before or after the JSON. " +
	"Start your response directly with { and end with }."

// buildPrompt creates the single structured instruction for one check-in.
// It states the output schema field by field, tells the service to first
// extract explicit financial facts, merge them with the snapshot it was
// given, and produce a conversational answer plus a plan only when
// warranted.
func buildPrompt(in Input) string {
	var b strings.Builder

	b.WriteString(`Process this financial check-in from the user.

Required JSON output schema:
{
  "extractedFinancialData": {            // omit entirely if the message contains no financial facts
    "monthlyIncome": number,             // only if the message states an income change, normalized to monthly (annual / 12)
    "expenses": {"category": number},    // only categories the message mentions, monthly amounts
    "accounts": [{"name": string, "balance": number, "type": string}],
    "debts": [{"name": string, "amount": number, "interestRate": number, "minimumPayment": number}],
    "goals": [{"name": string, "targetAmount": number, "targetDate": string, "currentAmount": number}]
  },
  "response": string,                    // required: conversational answer to the user
  "shouldUpdatePlan": boolean,           // true only when the update warrants regenerating the full plan
  "budgetAllocation": {"category": number},  // required when shouldUpdatePlan is true
  "savingsStrategy": string,
  "debtStrategy": string,
  "goalTimelines": {"goal name": string},
  "actionItems": [string],
  "insights": [string]
}

Instructions:
1. First extract any financial facts explicitly present in the message: income changes, expense mentions, account, debt or goal mentions, life events with financial impact. Do not invent facts the user did not state.
2. Merge those facts with the current financial snapshot below when reasoning about the user's situation.
3. Write a helpful conversational response. Regenerate the full plan only when the update meaningfully changes the user's finances or they asked for a review.

Numeric rules:
- Income amounts are monthly; convert annual figures by dividing by 12.
- Savings rate = (income - total expenses) / income * 100.
- Budget allocation amounts should sum close to monthly income.
- Use plain decimal numbers with at most two decimal places.

`)

	if in.ManualIncome != nil || len(in.ManualExpenses) > 0 {
		b.WriteString("Manual figures supplied by the user with this check-in (these take priority over anything inferred from the message):\n")
		if in.ManualIncome != nil {
			fmt.Fprintf(&b, "- monthly income: %.2f\n", *in.ManualIncome)
		}
		for category, amount := range in.ManualExpenses {
			fmt.Fprintf(&b, "- monthly expense %s: %.2f\n", category, amount)
		}
		b.WriteString("\n")
	}

	if in.IsMonthlyCheckIn {
		b.WriteString("This check-in was flagged as the user's monthly review.\n\n")
	}

	b.WriteString("History summary:\n")
	if in.Summary == "" {
		b.WriteString("(no previous history)\n")
	} else {
		b.WriteString(in.Summary)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("Current financial snapshot:\n")
	b.WriteString(marshalSection(in.State))
	b.WriteString("\n\n")

	b.WriteString("Previous plan:\n")
	if in.PreviousPlan == nil {
		b.WriteString("(none)\n")
	} else {
		b.WriteString(marshalSection(in.PreviousPlan))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("User message:\n")
	b.WriteString(in.Message)
	b.WriteString("\n")

	return b.String()
}

func marshalSection(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
