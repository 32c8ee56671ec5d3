// Package diag holds advisory, non-fatal diagnostics produced while loading
// an OpenAPI document.
package diag

import "fmt"

// WarningCode identifies a specific warning type.
// Use the Warn* constants for type-safe comparisons.
type WarningCode string

// String returns the code as a string.
func (c WarningCode) String() string {
	return string(c)
}

// Reference-resolution warnings.
const (
	// WarnUnresolvedRef indicates a $ref could not be resolved but the
	// caller did not require resolution (§4.E).
	WarnUnresolvedRef WarningCode = "UNRESOLVED_REF"

	// WarnUnknownRefScheme indicates a $ref with a base URI outside the
	// document registry was left unresolved.
	WarnUnknownRefScheme WarningCode = "UNKNOWN_REF_SCHEME"
)

// Schema-lowering warnings.
const (
	// WarnUnrecognizedKeyword indicates a schema keyword outside the known
	// set was preserved verbatim in the raw-JSON extensions blob.
	WarnUnrecognizedKeyword WarningCode = "UNRECOGNIZED_KEYWORD"

	// WarnCompositionNotLowered indicates a schema using allOf/anyOf/oneOf/not
	// could not be flattened to a single struct and was preserved as a raw
	// composition schema instead (§4.H).
	WarnCompositionNotLowered WarningCode = "COMPOSITION_NOT_LOWERED"
)

// Warning is an informational, non-fatal issue found while loading or
// lowering a document: an unresolved $ref the caller didn't require
// resolution for, a preserved-but-unrecognized schema keyword, a dropped
// unknown $ref scheme.
//
// Warnings are ADVISORY ONLY and never break loading. Use errors (see the
// root errors.go) for issues that must stop the load.
type Warning struct {
	Code WarningCode
	// Path is the JSON pointer to the affected document element, e.g.
	// "#/paths/~1x/get/responses/200". Empty when no single element owns
	// the warning (e.g. a document-wide keyword count).
	Path    string
	Message string
}

// String returns a formatted representation, e.g. "[UNRESOLVED_REF] ...".
func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Code, w.Message)
}

// NewWarning builds a Warning. This is the only constructor internal
// packages use; callers otherwise build Warnings by value.
func NewWarning(code WarningCode, path, message string) Warning {
	return Warning{Code: code, Path: path, Message: message}
}

// Warnings is a collection of Warning with helper methods. Warnings are
// informational and never break loading.
type Warnings []Warning

// Has returns true if any warning matches the given code.
func (ws Warnings) Has(code WarningCode) bool {
	for _, w := range ws {
		if w.Code == code {
			return true
		}
	}

	return false
}

// Append adds a warning to the collection.
func (ws *Warnings) Append(w Warning) {
	*ws = append(*ws, w)
}
