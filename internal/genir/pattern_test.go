package genir

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecomposePattern(t *testing.T) {
	cases := []struct {
		name    string
		pattern string
		want    PatternCheck
	}{
		{"exact", "^foo$", PatternCheck{Kind: PatternExact, Literal: "foo"}},
		{"prefix", "^foo", PatternCheck{Kind: PatternPrefix, Literal: "foo"}},
		{"suffix", "foo$", PatternCheck{Kind: PatternSuffix, Literal: "foo"}},
		{"substring", "foo", PatternCheck{Kind: PatternSubstring, Literal: "foo"}},
		{"exact with dash and underscore", "^foo-bar_baz$", PatternCheck{Kind: PatternExact, Literal: "foo-bar_baz"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecomposePattern(tc.pattern)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecomposePattern_UnsupportedRegexConstructReturnsErrUnsupportedPattern(t *testing.T) {
	unsupported := []string{
		"^[a-z]+$",
		"foo.*bar",
		"^foo|bar$",
		"a+",
		"(foo)",
	}

	for _, pattern := range unsupported {
		_, err := DecomposePattern(pattern)
		require.Error(t, err, pattern)
		assert.True(t, errors.Is(err, ErrUnsupportedPattern), pattern)
	}
}
