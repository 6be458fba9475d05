package domain

import "errors"

var (
	// ErrInvalidPlan marks a PlanParameters value that breaks a structural invariant.
	ErrInvalidPlan = errors.New("invalid plan parameters")
	// ErrInvalidInput marks a call whose arguments are inconsistent with the plan,
	// e.g. a target age before the current age.
	ErrInvalidInput = errors.New("invalid input")
)
