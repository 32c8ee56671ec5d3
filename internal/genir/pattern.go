// Package genir implements the emission IR support that sits between the
// lowered/lifted schema model and C code generation (§4.I): pattern
// decomposition into strcmp/strncmp/strstr checks, guard-macro wiring from
// config.GuardConfig, and reconciling the schema-derived struct shapes
// against an existing hand-maintained C header.
package genir

import (
	"strconv"
	"strings"
)

// PatternKind classifies a decomposed "pattern" validation keyword into the
// one of four shapes §4.I can emit without a regex runtime.
type PatternKind int

const (
	// PatternExact is `^literal$`: an exact strcmp.
	PatternExact PatternKind = iota

	// PatternPrefix is `^literal`: a strncmp over len(literal) bytes.
	PatternPrefix

	// PatternSuffix is `literal$`: a tail comparison.
	PatternSuffix

	// PatternSubstring is a bare `literal` with no anchors: a strstr.
	PatternSubstring
)

// PatternCheck is the decomposed form of a schema's "pattern" keyword,
// ready for the C emitter to lower into strcmp/strncmp/strstr.
type PatternCheck struct {
	Kind    PatternKind
	Literal string
}

// regexMetacharacters are the characters that make a pattern's literal body
// something other than a plain literal; their presence means the pattern
// needs a real regex engine and this generator does not carry one.
const regexMetacharacters = `.*+?()[]{}|\^$`

// DecomposePattern decomposes an anchored-or-not literal pattern into one
// of the four PatternKind shapes. It returns ErrUnsupportedPattern for any
// pattern whose un-anchored body still contains a regex metacharacter,
// per §9's decision to error at load time rather than silently fall back
// to a substring check or skip validation.
func DecomposePattern(pattern string) (PatternCheck, error) {
	anchoredStart := strings.HasPrefix(pattern, "^")
	anchoredEnd := strings.HasSuffix(pattern, "$")

	literal := pattern
	if anchoredStart {
		literal = literal[1:]
	}
	if anchoredEnd && len(literal) > 0 {
		literal = literal[:len(literal)-1]
	}

	if strings.ContainsAny(literal, regexMetacharacters) {
		return PatternCheck{}, &PatternError{Pattern: pattern}
	}

	switch {
	case anchoredStart && anchoredEnd:
		return PatternCheck{Kind: PatternExact, Literal: literal}, nil
	case anchoredStart:
		return PatternCheck{Kind: PatternPrefix, Literal: literal}, nil
	case anchoredEnd:
		return PatternCheck{Kind: PatternSuffix, Literal: literal}, nil
	default:
		return PatternCheck{Kind: PatternSubstring, Literal: literal}, nil
	}
}

// PatternError wraps ErrUnsupportedPattern with the offending pattern text.
type PatternError struct {
	Pattern string
}

func (e *PatternError) Error() string {
	return "genir: unsupported pattern " + strconv.Quote(e.Pattern)
}

func (e *PatternError) Unwrap() error {
	return ErrUnsupportedPattern
}
