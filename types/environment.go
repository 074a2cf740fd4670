package types

import "strings"

// Environment captures the process-wide state a single invocation depends
// on. It is built once in main and passed down explicitly so that
// resolution code never reads os.Getwd or os.Getenv on its own.
type Environment struct {
	// Cwd is the working directory relative paths are resolved against.
	Cwd string
	// Vars holds environment variables by name.
	Vars map[string]string
}

// NewEnvironment builds an Environment from a working directory and
// "KEY=value" pairs as returned by os.Environ.
func NewEnvironment(cwd string, environ []string) Environment {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = value
	}
	return Environment{Cwd: cwd, Vars: vars}
}

// Lookup returns the value of the named variable and whether it is set.
func (e Environment) Lookup(name string) (string, bool) {
	v, ok := e.Vars[name]
	return v, ok
}

// Get returns the value of the named variable, or "" if unset.
func (e Environment) Get(name string) string {
	return e.Vars[name]
}
