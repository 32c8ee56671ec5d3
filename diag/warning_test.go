package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWarning(t *testing.T) {
	warning := NewWarning(WarnUnresolvedRef, "#/components/schemas/A", "ref not required to resolve")

	assert.Equal(t, WarnUnresolvedRef, warning.Code)
	assert.Equal(t, "#/components/schemas/A", warning.Path)
	assert.Equal(t, "ref not required to resolve", warning.Message)
	assert.Contains(t, warning.String(), string(WarnUnresolvedRef))
	assert.Contains(t, warning.String(), "ref not required to resolve")
}

func TestWarningString(t *testing.T) {
	warning := NewWarning(WarnUnknownRefScheme, "#/paths", "unregistered base uri")

	str := warning.String()
	assert.Contains(t, str, "[UNKNOWN_REF_SCHEME]")
	assert.Contains(t, str, "unregistered base uri")
}

func TestWarningsHas(t *testing.T) {
	warnings := Warnings{
		NewWarning(WarnUnresolvedRef, "#/a", "test"),
		NewWarning(WarnCompositionNotLowered, "#/b", "test"),
	}

	assert.True(t, warnings.Has(WarnUnresolvedRef))
	assert.True(t, warnings.Has(WarnCompositionNotLowered))
	assert.False(t, warnings.Has(WarnUnknownRefScheme))
}

func TestWarningsHas_NilList(t *testing.T) {
	var warnings Warnings

	assert.False(t, warnings.Has(WarnUnresolvedRef))
}

func TestWarningsAppend(t *testing.T) {
	var warnings Warnings

	warnings.Append(NewWarning(WarnUnresolvedRef, "#/a", "test1"))
	assert.Len(t, warnings, 1)
	assert.True(t, warnings.Has(WarnUnresolvedRef))

	warnings.Append(NewWarning(WarnUnknownRefScheme, "#/b", "test2"))
	assert.Len(t, warnings, 2)
	assert.True(t, warnings.Has(WarnUnknownRefScheme))
}
