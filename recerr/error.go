package recerr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Standard error codes used across the SDK for consistent error reporting.
const (
	// CodeNetworkUnavailable indicates the taxonomy service is unreachable.
	CodeNetworkUnavailable = "NETWORK_UNAVAILABLE"

	// CodeServiceError indicates a non-success response from the taxonomy service.
	CodeServiceError = "SERVICE_ERROR"

	// CodeAmbiguous indicates a query returned more than one match where
	// exactly one was required.
	CodeAmbiguous = "AMBIGUOUS"

	// CodeNotFound indicates zero matches where a match was required.
	CodeNotFound = "NOT_FOUND"

	// CodeMissingTaxonomy indicates a node lacks the taxonomic data an
	// operation requires.
	CodeMissingTaxonomy = "MISSING_TAXONOMY"

	// CodeInsufficientTaxonomy indicates a tree does not carry enough
	// taxonomic data to proceed.
	CodeInsufficientTaxonomy = "INSUFFICIENT_TAXONOMY"

	// CodeDuplicateSpeciesKey indicates a taxonomy is not unique among the
	// species tree externals.
	CodeDuplicateSpeciesKey = "DUPLICATE_SPECIES_KEY"

	// CodeInvalidState indicates an invariant violation: a bug, not bad data.
	CodeInvalidState = "INVALID_STATE"
)

// Error is a structured error type for reconciliation operations.
// It provides context about which operation failed, includes a standard
// error code, and can wrap underlying errors.
type Error struct {
	// Op is the operation that failed (e.g., "resolve", "gsdi").
	Op string

	// Code is a standard error code constant.
	Code string

	// Message is a human-readable error message.
	Message string

	// Details contains additional context as key-value pairs.
	Details map[string]any

	// Cause is the underlying error that caused this error.
	Cause error
}

// New creates a new structured error.
//
// Example:
//
//	err := recerr.New("mapper", recerr.CodeInsufficientTaxonomy, "gene tree has no taxonomic data")
func New(op, code, message string) *Error {
	return &Error{
		Op:      op,
		Code:    code,
		Message: message,
	}
}

// Newf creates a new structured error with a formatted message.
func Newf(op, code, format string, args ...any) *Error {
	return New(op, code, fmt.Sprintf(format, args...))
}

// WithCause adds an underlying error and returns the same instance for chaining.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// WithDetails adds additional context and returns the same instance for chaining.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// Error implements the error interface. The format is
// "[op] CODE: message (key=value, ...): cause".
func (e *Error) Error() string {
	var sb strings.Builder
	if e.Op != "" {
		fmt.Fprintf(&sb, "[%s] ", e.Op)
	}
	if e.Code != "" {
		fmt.Fprintf(&sb, "%s: ", e.Code)
	}
	sb.WriteString(e.Message)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, e.Details[k]))
		}
		fmt.Fprintf(&sb, " (%s)", strings.Join(parts, ", "))
	}
	if e.Cause != nil {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	return sb.String()
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
// This lets callers match on code with errors.Is using a bare
// &Error{Code: ...} sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// IsCode reports whether err is or wraps an *Error carrying the given code.
func IsCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost *Error in err's chain, or the
// empty string when err carries no structured error.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
