package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidState     = errors.New("invalid state")
	ErrConflict         = errors.New("conflict")
	ErrPermissionDenied = errors.New("permission denied")
	ErrIneligible       = errors.New("not eligible")
)

// Step names the mutation a transactional sequence was executing when it
// failed, so callers can tell "nothing happened" apart from "the listing was
// reserved but the applicant update failed" (everything is rolled back either
// way).
type Step string

const (
	StepUpdateListing   Step = "update-listing"
	StepUpdateApplicant Step = "update-applicant"
	StepUpdateOffer     Step = "update-offer"
	StepUnknown         Step = "unknown"
)

// StepError tags a persistence failure with the step it happened in.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
