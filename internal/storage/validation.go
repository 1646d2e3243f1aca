package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/marlowe-fi/centsible/internal/common"
)

func validateContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context must not be nil")
	}
	return ctx.Err()
}

func validateString(value, name string) error {
	if strings.TrimSpace(value) == "" {
		return common.NewValidationError(name, "must not be empty")
	}
	return nil
}
