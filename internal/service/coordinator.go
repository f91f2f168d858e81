package service

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// TxStep is one named mutation inside an atomic sequence. The step receives
// the transaction handle and must issue all its writes through it.
type TxStep struct {
	Name Step
	Run  func(tx *gorm.DB) error
}

// Coordinator executes an ordered list of steps inside one database
// transaction. The first failing step aborts the sequence, the store rolls
// back every prior write, and the failure comes back as a *StepError naming
// the step. Failures that already carry a step tag pass through unchanged;
// anything else is tagged with the failing step, and errors from outside any
// step (begin/commit) are tagged "unknown". No store error escapes untagged.
type Coordinator struct {
	db *gorm.DB
}

func NewCoordinator(db *gorm.DB) *Coordinator {
	return &Coordinator{db: db}
}

func (c *Coordinator) Run(ctx context.Context, steps []TxStep) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, step := range steps {
			if err := step.Run(tx); err != nil {
				var stepErr *StepError
				if errors.As(err, &stepErr) {
					return err
				}
				return &StepError{Step: step.Name, Err: err}
			}
		}
		return nil
	})
	if err == nil {
		return nil
	}
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return err
	}
	return &StepError{Step: StepUnknown, Err: err}
}
