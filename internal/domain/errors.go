package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
)

// ValidationError aggregates every rule a registration input violated so the
// caller can surface all of them at once.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

// DuplicateCustomerError is returned when a registration derives an ID that
// already occupies the customer store.
type DuplicateCustomerError struct {
	ExistingID string
}

func (e *DuplicateCustomerError) Error() string {
	return fmt.Sprintf("customer already exists with ID: %s", e.ExistingID)
}

// CodeRejectReason names why a referral code was rejected.
type CodeRejectReason string

const (
	CodeBadFormat   CodeRejectReason = "bad_format"
	CodeNotFound    CodeRejectReason = "not_found"
	CodeAlreadyUsed CodeRejectReason = "already_used"
)

// InvalidReferralCodeError carries the specific rejection reason for a code
// presented at registration.
type InvalidReferralCodeError struct {
	Code    string
	Reason  CodeRejectReason
	Message string
}

func (e *InvalidReferralCodeError) Error() string {
	return e.Message
}

// ExternalServiceError wraps a failure of an external collaborator such as
// the conversational model. Callers recover locally instead of propagating
// it to the user.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}
