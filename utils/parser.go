package utils

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/vitwit/w3resolve/types"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ParsePaymentIDResponse parses and validates a Payment-ID API body.
func ParsePaymentIDResponse(data []byte) (*types.PaymentIDResponse, error) {
	var resp types.PaymentIDResponse

	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &types.ResolverError{
			Code:    types.ErrLookupFailed,
			Message: "failed to parse payment id response",
			Err:     err,
		}
	}

	if err := validate.Struct(&resp); err != nil {
		return nil, &types.ResolverError{
			Code:    types.ErrLookupFailed,
			Message: fmt.Sprintf("validation failed: %v", err),
		}
	}

	return &resp, nil
}

// ValidateResolverConfig checks cfg against its struct tags.
func ValidateResolverConfig(cfg *types.ResolverConfig) error {
	if cfg == nil {
		return &types.ResolverError{Code: types.ErrConfigError, Message: "config is nil"}
	}
	if err := validate.Struct(cfg); err != nil {
		return &types.ResolverError{
			Code:    types.ErrConfigError,
			Message: fmt.Sprintf("validation failed: %v", err),
		}
	}
	return nil
}
