package schema

import "errors"

// Class is a stable category for programmatic error handling.
//
// Callers should branch on Class/RuleID rather than matching error strings.
// Error() strings are human-readable and may evolve.
type Class string

const (
	ClassMalformed Class = "Malformed"
	ClassLimit     Class = "Limit"
	ClassDecode    Class = "Decode"
	ClassProvider  Class = "Provider"
)

// Error is the library's structured error type.
//
// RuleID is a stable identifier (e.g., SW-VAL-001, SW-ENC-004) naming the
// violated invariant. Message is intended for humans; do not match on it.
type Error struct {
	Class   Class
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewError builds a structured error. Intended for this module's packages;
// exported so the encoder and providers share one taxonomy.
func NewError(class Class, ruleID, msg string) error {
	return &Error{Class: class, RuleID: ruleID, Message: msg}
}

// WrapError is NewError with a cause attached.
func WrapError(class Class, ruleID, msg string, cause error) error {
	if cause == nil {
		return NewError(class, ruleID, msg)
	}
	return &Error{Class: class, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsClass reports whether err is (or wraps) a *Error with the given Class.
func IsClass(err error, class Class) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Class == class
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
