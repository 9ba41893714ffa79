package usecase

import "errors"

// Rejection reasons, in the order the pipeline can produce them.
const (
	ReasonMissingFields = "missing_fields"
	ReasonBlocked       = "blocked"
	ReasonInvalidField  = "invalid_field"
	ReasonInvalidClient = "invalid_client"
	ReasonInactive      = "inactive"
	ReasonNotConfigured = "not_configured"
	ReasonProfanity     = "profanity"
	ReasonDuplicate     = "duplicate"
)

// RejectError is returned when the admission pipeline turns a submission
// away. Status carries the HTTP status the handler answers with; Message
// is the user-visible text, deliberately vague on the abuse paths.
type RejectError struct {
	Reason  string
	Status  int
	Message string
}

func (e *RejectError) Error() string {
	return e.Message
}

func AsRejectError(err error) (*RejectError, bool) {
	var rej *RejectError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// TechnicalError is an operator-facing failure (store write failed, tenant
// misconfigured at a level the submitter can't fix). Always a 500.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}
