package config

import "regexp"

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// - ${VAR} expands to the variable value, or empty string if unset
// - ${VAR:-default} expands to the variable value, or "default" if unset/empty
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnv replaces ${VAR} and ${VAR:-default} patterns in the input string
// with values from lookup.
//
// Unset variables without defaults expand to empty string (not an error).
// An entry that expands to nothing is dropped by the config parsers.
func ExpandEnv(input string, lookup func(string) (string, bool)) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}

		value, ok := lookup(groups[1])
		if ok && value != "" {
			return value
		}

		// Use default if provided (groups[2] is the default value)
		if len(groups) >= 3 && groups[2] != "" {
			return groups[2]
		}

		return ""
	})
}
