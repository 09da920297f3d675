package envvar

import (
	"regexp"
	"strings"
)

// pattern matches ${VAR_NAME} and ${VAR_NAME:-default} placeholders for environment variable expansion.
// Groups: 1 = variable name, 2 = optional default value (after :-).
var pattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(?::-([^}]*))?\}`)

// defaultSyntaxMarker is the delimiter used for default value syntax in env var placeholders.
const defaultSyntaxMarker = ":-"

// Expand replaces ${VAR_NAME} and ${VAR_NAME:-default} placeholders with values from s.
// If a referenced variable is not bound:
//   - With default syntax ${VAR:-default}: the default value is used
//   - Without default ${VAR}: the empty string is used and VAR is reported in missing
//
// Bare $VAR references are left untouched so the shell can still expand them.
func (s Source) Expand(value string) (string, []string) {
	if value == "" {
		return value, nil
	}

	var missing []string

	expanded := pattern.ReplaceAllStringFunc(value, func(match string) string {
		groups := pattern.FindStringSubmatch(match)
		name := groups[1]

		if bound, ok := s.Lookup(name); ok {
			return bound
		}

		switch {
		case groups[2] != "":
			return groups[2]
		case strings.Contains(match, defaultSyntaxMarker):
			return ""
		default:
			missing = append(missing, name)

			return ""
		}
	})

	return expanded, missing
}
