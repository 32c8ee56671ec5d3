package genir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talav/ccdd/config"
)

func TestGuardName(t *testing.T) {
	cfg := config.NewGuardConfig("ENUM_GUARD", "JSON_GUARD", "UTILS_GUARD")

	assert.Equal(t, "ENUM_GUARD", GuardName(cfg, GuardEnum))
	assert.Equal(t, "JSON_GUARD", GuardName(cfg, GuardJSON))
	assert.Equal(t, "UTILS_GUARD", GuardName(cfg, GuardUtils))
}

func TestGuardName_DefaultConfigHasNoGuards(t *testing.T) {
	cfg := config.DefaultGuardConfig()

	assert.Empty(t, GuardName(cfg, GuardEnum))
	assert.Empty(t, GuardName(cfg, GuardJSON))
	assert.Empty(t, GuardName(cfg, GuardUtils))
}
