package load

import "errors"

// Sentinel errors. The root package re-exports these (see its errors.go)
// so callers never need to import this internal package to use errors.Is.
var (
	// ErrNotJSON indicates the input could not be parsed as JSON.
	ErrNotJSON = errors.New("input is not valid JSON")

	// ErrMissingOpenAPIField indicates neither "openapi" nor "swagger" was
	// present and the document also did not look like a standalone JSON
	// Schema.
	ErrMissingOpenAPIField = errors.New("missing openapi field")

	// ErrUnsupportedVersion indicates the "openapi" field did not match
	// 3.1.x or 3.2.x.
	ErrUnsupportedVersion = errors.New("unsupported version (must be 3.1.x or 3.2.x)")

	// ErrSwaggerUnsupported indicates a legacy Swagger 2.0 document was
	// supplied.
	ErrSwaggerUnsupported = errors.New("swagger 2.0 documents are not supported")

	// ErrLicenseMutuallyExclusive indicates both license identifier and
	// url were set.
	ErrLicenseMutuallyExclusive = errors.New("license identifier and url are mutually exclusive")

	// ErrLicenseNameRequired indicates a license object was present
	// without a name.
	ErrLicenseNameRequired = errors.New("license.name is required when license is present")

	// ErrPathMustStartWithSlash indicates a paths-section route did not
	// start with "/" (not required in webhooks or component path items).
	ErrPathMustStartWithSlash = errors.New("path must start with '/'")

	// ErrDuplicateParameter indicates two parameters on the same path
	// item or operation share the same (name, in) pair.
	ErrDuplicateParameter = errors.New("duplicate parameter")

	// ErrInvalidResponseCode indicates a response key was not "default",
	// a 3-digit status, or an NXX wildcard.
	ErrInvalidResponseCode = errors.New("invalid response code")

	// ErrSchemaAndContentExclusive indicates both schema and content were
	// set on a parameter or media type.
	ErrSchemaAndContentExclusive = errors.New("schema and content are mutually exclusive")
)
