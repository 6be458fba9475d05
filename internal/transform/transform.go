package transform

import (
	"fmt"

	"github.com/rgehrsitz/corpusplan/internal/domain"
)

// ScenarioTransform is a composable change to a plan. Plans are values, so
// Apply always returns a modified copy and leaves base untouched.
type ScenarioTransform interface {
	// Apply returns the transformed plan.
	Apply(base domain.PlanParameters) (domain.PlanParameters, error)

	// Name returns a short identifier for this transform (e.g., "delay").
	Name() string

	// Description returns a human-readable description of what this transform does.
	Description() string

	// Validate checks the transform parameters against base without applying them.
	Validate(base domain.PlanParameters) error
}

// ApplyTransforms applies transforms in order, each receiving the output of
// the previous one. The result must still satisfy the plan invariants.
func ApplyTransforms(base domain.PlanParameters, transforms []ScenarioTransform) (domain.PlanParameters, error) {
	current := base
	for i, transform := range transforms {
		if transform == nil {
			return domain.PlanParameters{}, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return domain.PlanParameters{}, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return domain.PlanParameters{}, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}
		current = next
	}

	if err := current.Validate(); err != nil {
		return domain.PlanParameters{}, fmt.Errorf("transformed plan is invalid: %w", err)
	}
	return current, nil
}

// TransformError reports a transform that cannot be applied to a plan.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	msg := "transform " + e.TransformName + " (" + e.Operation + "): " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransformError) Unwrap() error { return e.Err }

// NewTransformError wraps err, which may be nil, with the transform context.
func NewTransformError(name, operation, reason string, err error) error {
	return &TransformError{TransformName: name, Operation: operation, Reason: reason, Err: err}
}

func requireAdvanced(name string, base domain.PlanParameters) error {
	if base.Mode != domain.ModeAdvanced {
		return NewTransformError(name, "validate", "only applies to age-based plans", domain.ErrInvalidInput)
	}
	return nil
}
