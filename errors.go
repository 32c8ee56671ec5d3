package openapi

import (
	"github.com/talav/ccdd/internal/genir"
	"github.com/talav/ccdd/internal/load"
	"github.com/talav/ccdd/internal/resolve"
	"github.com/talav/ccdd/internal/validate"
)

// Structural errors (malformed input, §7). These alias the sentinels owned
// by internal/load (the package that actually produces them) so callers
// can use errors.Is against either package without a second identity.
var (
	ErrNotJSON                   = load.ErrNotJSON
	ErrMissingOpenAPIField       = load.ErrMissingOpenAPIField
	ErrUnsupportedVersion        = load.ErrUnsupportedVersion
	ErrSwaggerUnsupported        = load.ErrSwaggerUnsupported
	ErrLicenseMutuallyExclusive  = load.ErrLicenseMutuallyExclusive
	ErrLicenseNameRequired       = load.ErrLicenseNameRequired
	ErrPathMustStartWithSlash    = load.ErrPathMustStartWithSlash
	ErrDuplicateParameter        = load.ErrDuplicateParameter
	ErrInvalidResponseCode       = load.ErrInvalidResponseCode
	ErrSchemaAndContentExclusive = load.ErrSchemaAndContentExclusive
)

// Semantic errors (§4.J validators, §7). These alias the sentinels owned by
// internal/validate (the package that actually produces them) so callers
// can use errors.Is against either package without a second identity.
var (
	ErrDuplicateOperationID           = validate.ErrDuplicateOperationID
	ErrUnmatchedPathParameter         = validate.ErrUnmatchedPathParameter
	ErrDuplicatePathParameter         = validate.ErrDuplicatePathParameter
	ErrPathCollision                  = validate.ErrPathCollision
	ErrQuerystringConflict            = validate.ErrQuerystringConflict
	ErrQuerystringNeedsContent        = validate.ErrQuerystringNeedsContent
	ErrUndefinedTagParent             = validate.ErrUndefinedTagParent
	ErrTagCycle                       = validate.ErrTagCycle
	ErrUndefinedServerVariable        = validate.ErrUndefinedServerVariable
	ErrServerVariableDefaultNotInEnum = validate.ErrServerVariableDefaultNotInEnum
	ErrServerVariableUsedTwice        = validate.ErrServerVariableUsedTwice
	ErrUnresolvedParameterRef         = validate.ErrUnresolvedParameterRef
)

// Pattern errors (§8, §9 — the Open Question is resolved to "error, don't
// downgrade"). This aliases the sentinel owned by internal/genir, the
// package that actually produces it.
var (
	ErrUnsupportedPattern = genir.ErrUnsupportedPattern
)

// Resource errors (§7). This aliases the sentinel owned by internal/resolve,
// the package that actually produces it (via ResolveRef, called from
// internal/validate while dereferencing a Parameter $ref).
var (
	ErrDocumentNotRegistered = resolve.ErrDocumentNotRegistered
)
