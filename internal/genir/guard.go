package genir

import "github.com/talav/ccdd/config"

// GuardGroup selects which of GuardConfig's three guard names applies to a
// given emitted kernel.
type GuardGroup int

const (
	// GuardEnum brackets to_str/from_str kernels.
	GuardEnum GuardGroup = iota

	// GuardJSON brackets to_json/from_json/from_jsonObject kernels.
	GuardJSON

	// GuardUtils brackets cleanup/default/deepcopy/eq/debug/display kernels.
	GuardUtils
)

// GuardName returns the #ifdef guard macro name cfg configures for group,
// or "" if that group is unguarded.
func GuardName(cfg config.GuardConfig, group GuardGroup) string {
	switch group {
	case GuardEnum:
		return cfg.EnumGuard
	case GuardJSON:
		return cfg.JSONGuard
	case GuardUtils:
		return cfg.UtilsGuard
	default:
		return ""
	}
}
