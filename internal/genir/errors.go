package genir

import "errors"

// ErrUnsupportedPattern is returned when a schema's "pattern" uses a regex
// construct outside the anchored-literal/prefix/suffix/substring forms
// §4.I's pattern decomposition can express without a regex runtime. Per
// §9's open question, this implementation errors rather than silently
// downgrading the check.
var ErrUnsupportedPattern = errors.New("genir: pattern uses unsupported regex constructs")
