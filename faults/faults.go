// Package faults defines the structured error taxonomy shared by the
// operation builders, the submission pipeline and the confirmation tracker.
// Every failure recorded in the operation history carries a class (where in
// the lifecycle it happened) and a stable code (what exactly went wrong).
package faults

import (
	"errors"
	"fmt"
)

// Class places a failure in the operation lifecycle.
type Class string

const (
	// ClassValidation covers failures detected locally, before any network call.
	ClassValidation Class = "validation"
	// ClassAuthorization covers authority mismatches surfaced by the chain.
	ClassAuthorization Class = "authorization"
	// ClassSubmission covers signing refusals and outright gateway rejections.
	ClassSubmission Class = "submission"
	// ClassConfirmation covers on-chain execution errors reported after
	// submission: the operation definitely did not take effect.
	ClassConfirmation Class = "confirmation"
	// ClassConnectivity covers failures of the confirmation wait itself:
	// the outcome of the operation is unknown.
	ClassConnectivity Class = "connectivity"
)

// Stable failure codes.
const (
	CodeMalformedAddress    = "malformed_address"
	CodeInvalidAmount       = "invalid_amount"
	CodeAssetLookupFailed   = "asset_lookup_failed"
	CodeWalletNotConnected  = "wallet_not_connected"
	CodeAuthorityMismatch   = "authority_mismatch"
	CodeUserRejected        = "user_rejected"
	CodeProviderUnavailable = "provider_unavailable"
	CodeSubmissionRejected  = "submission_rejected"
	CodeExecutionError      = "execution_error"
	CodeTimeout             = "timeout"
)

// Error is a classified failure. Class and Code are exported so records can be
// serialized as-is for the history consumer.
type Error struct {
	Class   Class  `json:"class"`
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s/%s: %s", e.Class, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a classified error.
func New(class Class, code, format string, args ...any) *Error {
	e := &Error{Class: class, Code: code, Message: fmt.Sprintf(format, args...)}
	for _, a := range args {
		if err, ok := a.(error); ok {
			e.cause = err
		}
	}
	return e
}

func Validation(code, format string, args ...any) *Error {
	return New(ClassValidation, code, format, args...)
}

func Authorization(code, format string, args ...any) *Error {
	return New(ClassAuthorization, code, format, args...)
}

func Submission(code, format string, args ...any) *Error {
	return New(ClassSubmission, code, format, args...)
}

func Confirmation(code, format string, args ...any) *Error {
	return New(ClassConfirmation, code, format, args...)
}

func Connectivity(code, format string, args ...any) *Error {
	return New(ClassConnectivity, code, format, args...)
}

// From returns err as a classified error, wrapping it under the given
// defaults when it is not one already.
func From(err error, class Class, code string) *Error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe
	}
	return &Error{Class: class, Code: code, Message: err.Error(), cause: err}
}

// ClassOf reports the class of err, or the empty class for plain errors.
func ClassOf(err error) Class {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Class
	}
	return ""
}

// CodeOf reports the stable code of err, or the empty string for plain errors.
func CodeOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}
