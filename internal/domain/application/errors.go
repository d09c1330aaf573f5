package application

import "driver-license-portal/internal/domain/errs"

var (
	ErrNotFound         = errs.NotFound("Application not found")
	ErrInvalidStatus    = errs.Validation("Invalid application status")
	ErrNotApproved      = errs.State("Only approved applications can be marked as picked up")
	ErrAlreadyPickedUp  = errs.State("License has already been picked up")
	ErrNothingToProcess = errs.State("No applications in a reviewable state")
)

// AlreadyProcessed reports a review attempt on an application that already
// carries a final decision.
func AlreadyProcessed(current Status) *errs.Error {
	return errs.State("Application already %s", current).With("currentStatus", string(current))
}
