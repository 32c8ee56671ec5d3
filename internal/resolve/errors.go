package resolve

import "errors"

// ErrDocumentNotRegistered indicates a cross-document $ref/$dynamicRef
// named a base URI that DocRegistry has no entry for (§4.E, §7).
var ErrDocumentNotRegistered = errors.New("resolve: referenced document is not registered")
