// Package envvar reads process environment variables for hooks.
//
// A [Source] abstracts where variables come from so that hooks and tests can
// swap the process environment for a fixed map.
package envvar

import "os"

// AzureEnvName is the variable azd sets to the name of the active environment.
const AzureEnvName = "AZURE_ENV_NAME"

// UnknownEnvName is reported when [AzureEnvName] is not set.
const UnknownEnvName = "unknown"

// Source looks up a single variable and reports whether it is bound.
type Source func(name string) (string, bool)

// Process returns a Source backed by the current process environment.
func Process() Source {
	return os.LookupEnv
}

// MapSource returns a Source backed by a fixed map. A nil map has no variables.
func MapSource(vars map[string]string) Source {
	return func(name string) (string, bool) {
		value, ok := vars[name]

		return value, ok
	}
}

// Lookup returns the value bound to name. A nil Source reads the process environment.
func (s Source) Lookup(name string) (string, bool) {
	if s == nil {
		return os.LookupEnv(name)
	}

	return s(name)
}

// Get returns the value bound to name, or def when name is unbound.
// A variable that is set to the empty string is bound.
func (s Source) Get(name, def string) string {
	value, ok := s.Lookup(name)
	if !ok {
		return def
	}

	return value
}

// EnvName returns the azd environment name, or [UnknownEnvName].
func (s Source) EnvName() string {
	return s.Get(AzureEnvName, UnknownEnvName)
}

// Missing returns the names that are unbound, in the order given.
func (s Source) Missing(names ...string) []string {
	var missing []string

	for _, name := range names {
		if _, ok := s.Lookup(name); !ok {
			missing = append(missing, name)
		}
	}

	return missing
}

// Get returns the process value bound to name, or def when name is unbound.
func Get(name, def string) string {
	return Process().Get(name, def)
}
