package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlowe-fi/centsible/internal/common"
)

func TestCheckInRequestValidate(t *testing.T) {
	income := 5000.0
	negIncome := -100.0
	nanIncome := math.NaN()

	tests := []struct {
		name    string
		req     CheckInRequest
		wantErr bool
	}{
		{
			name: "plain message",
			req:  CheckInRequest{Message: "I got a raise to $6k"},
		},
		{
			name: "message with overrides",
			req: CheckInRequest{
				Message:         "monthly check-in",
				MonthlyIncome:   &income,
				MonthlyExpenses: map[string]float64{"rent": 1800},
			},
		},
		{
			name:    "empty message",
			req:     CheckInRequest{Message: ""},
			wantErr: true,
		},
		{
			name:    "whitespace message",
			req:     CheckInRequest{Message: "   \t\n"},
			wantErr: true,
		},
		{
			name:    "negative income",
			req:     CheckInRequest{Message: "update", MonthlyIncome: &negIncome},
			wantErr: true,
		},
		{
			name:    "NaN income",
			req:     CheckInRequest{Message: "update", MonthlyIncome: &nanIncome},
			wantErr: true,
		},
		{
			name: "negative expense",
			req: CheckInRequest{
				Message:         "update",
				MonthlyExpenses: map[string]float64{"rent": -500},
			},
			wantErr: true,
		},
		{
			name: "blank expense category",
			req: CheckInRequest{
				Message:         "update",
				MonthlyExpenses: map[string]float64{"  ": 500},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, common.IsValidationError(err))
				return
			}
			require.NoError(t, err)
		})
	}
}
