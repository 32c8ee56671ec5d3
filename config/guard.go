// Package config holds user-configurable naming for the generated C guard
// macros.
package config

// GuardConfig configures the preprocessor guard macro names used to
// bracket emitted functions (§4.I of the generator contract). Each guard
// is optional; an empty string means no #ifdef/#endif wrapper is emitted
// for that kernel group.
type GuardConfig struct {
	// EnumGuard brackets emitted enum to_str/from_str kernels.
	EnumGuard string

	// JSONGuard brackets emitted to_json/from_json/from_jsonObject kernels.
	JSONGuard string

	// UtilsGuard brackets emitted cleanup/default/deepcopy/eq/debug/display kernels.
	UtilsGuard string
}

// DefaultGuardConfig returns the guard configuration used when the caller
// does not configure guards explicitly: no guards at all.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{}
}

// MergeGuardConfig merges cfg into current, preserving current values when
// cfg fields are empty. Non-empty values in cfg override corresponding
// fields in current. This is useful for chaining multiple partial
// configurations supplied via functional options.
func MergeGuardConfig(current, cfg GuardConfig) GuardConfig {
	result := current

	if cfg.EnumGuard != "" {
		result.EnumGuard = cfg.EnumGuard
	}
	if cfg.JSONGuard != "" {
		result.JSONGuard = cfg.JSONGuard
	}
	if cfg.UtilsGuard != "" {
		result.UtilsGuard = cfg.UtilsGuard
	}

	return result
}

// NewGuardConfig creates a GuardConfig with explicit values for all fields.
// Use this when you want to specify all guard names explicitly.
func NewGuardConfig(enumGuard, jsonGuard, utilsGuard string) GuardConfig {
	return GuardConfig{
		EnumGuard:  enumGuard,
		JSONGuard:  jsonGuard,
		UtilsGuard: utilsGuard,
	}
}
