package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultGuardConfig(t *testing.T) {
	cfg := DefaultGuardConfig()

	assert.Empty(t, cfg.EnumGuard)
	assert.Empty(t, cfg.JSONGuard)
	assert.Empty(t, cfg.UtilsGuard)
}

func TestNewGuardConfig(t *testing.T) {
	cfg := NewGuardConfig("ENUM_GUARD", "JSON_GUARD", "UTILS_GUARD")

	assert.Equal(t, "ENUM_GUARD", cfg.EnumGuard)
	assert.Equal(t, "JSON_GUARD", cfg.JSONGuard)
	assert.Equal(t, "UTILS_GUARD", cfg.UtilsGuard)
}

func TestMergeGuardConfig(t *testing.T) {
	tests := []struct {
		name     string
		base     GuardConfig
		override GuardConfig
		want     GuardConfig
	}{
		{
			name: "empty override does not change base",
			base: NewGuardConfig("E", "J", "U"),
			want: NewGuardConfig("E", "J", "U"),
		},
		{
			name:     "override replaces only set fields",
			base:     NewGuardConfig("E", "J", "U"),
			override: GuardConfig{EnumGuard: "E2"},
			want:     NewGuardConfig("E2", "J", "U"),
		},
		{
			name:     "full override replaces everything",
			base:     NewGuardConfig("E", "J", "U"),
			override: NewGuardConfig("E2", "J2", "U2"),
			want:     NewGuardConfig("E2", "J2", "U2"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeGuardConfig(tt.base, tt.override)
			assert.Equal(t, tt.want, got)
		})
	}
}
