package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/thushan/ladder/internal/core/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(validateHandler, HandlerConfig{})
	v.RegisterStructValidation(validateChain, ChainConfig{})
	return v
}

// Validate checks field rules and the cross field ones the tags cannot
// express. The first problem found is returned as a ConfigValidationError.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return fmt.Errorf("validating config: %w", err)
	}

	first := validationErrs[0]
	return domain.NewConfigValidationError(trimNamespace(first.Namespace()), first.Value(), reasonFor(first))
}

func validateHandler(sl validator.StructLevel) {
	h := sl.Current().Interface().(HandlerConfig)

	switch h.Kind {
	case "", domain.HandlerKindTier:
		if len(h.Severities) == 0 {
			sl.ReportError(h.Severities, "severities", "Severities", "tier_severities", "")
		}
	case domain.HandlerKindRange:
		if h.Min == 0 || h.Max == 0 {
			sl.ReportError(h.Min, "min", "Min", "range_bounds", "")
		} else if h.Min > h.Max {
			sl.ReportError(h.Min, "min", "Min", "range_order", "")
		}
	}
}

func validateChain(sl validator.StructLevel) {
	c := sl.Current().Interface().(ChainConfig)

	seen := make(map[string]struct{}, len(c.Handlers))
	for i, h := range c.Handlers {
		if _, dup := seen[h.Name]; dup && h.Name != "" {
			sl.ReportError(h.Name, fmt.Sprintf("handlers[%d].name", i), "Name", "unique_name", "")
			return
		}
		seen[h.Name] = struct{}{}
	}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required when " + strings.ReplaceAll(fe.Param(), " ", " is ")
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "tier_severities":
		return "tier handler needs at least one severity"
	case "range_bounds":
		return "range handler needs both min and max"
	case "range_order":
		return "min must not exceed max"
	case "unique_name":
		return "handler name is already used in this chain"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// trimNamespace drops the root struct name: Config.chain.handlers[0].name
// reads as chain.handlers[0].name
func trimNamespace(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
