package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports an invalid configuration value with the field that
// carries it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Message)
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// Validate checks struct tags plus the cross-field constraints the tags
// cannot express.
func Validate(cfg *Configuration) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ValidationError{
				Field:   fe.Namespace(),
				Message: fmt.Sprintf("failed %q validation (value %v)", fe.Tag(), fe.Value()),
			}
		}
		return &ValidationError{Message: err.Error()}
	}

	if cfg.Complexity.ModerateCutoff <= cfg.Complexity.SimpleCutoff {
		return &ValidationError{
			Field:   "complexity.moderate_cutoff",
			Message: "must be greater than complexity.simple_cutoff",
		}
	}
	if cfg.Provider.Backend == "openai" && cfg.Provider.Model == "" {
		return &ValidationError{
			Field:   "provider.model",
			Message: "required for the openai backend",
		}
	}
	return nil
}
