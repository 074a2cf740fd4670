// Package args turns raw command-line tokens into invocation options.
//
// Flags take the form --name or --name=value; there is no space-separated
// value form. Values and positional queries may be wrapped in one pair of
// single or double quotes, which are stripped.
package args

import (
	"strings"

	"github.com/pithecene-io/browserslist/cli/render"
	"github.com/pithecene-io/browserslist/types"
)

// Options is the parsed invocation. It is not mutated after Parse returns.
type Options struct {
	// ShowHelp and ShowVersion short-circuit everything else.
	ShowHelp    bool
	ShowVersion bool

	// Coverage requests coverage lines instead of the browser list.
	Coverage bool
	// Countries are the coverage regions; empty means global.
	Countries []string

	// ConfigPath is an explicit config file.
	ConfigPath string
	// Env names the config section to use.
	Env string
	// StatsPath is a custom usage stats location.
	StatsPath string

	// Format selects the output format.
	Format render.Format
	// NoColor disables colored errors and tables.
	NoColor bool
	// TUI shows the result in the interactive view.
	TUI bool
	// IgnoreUnknownVersions skips direct queries for unknown versions.
	IgnoreUnknownVersions bool

	// Queries are the positional queries in the order given.
	Queries []string
}

// Parse interprets tokens. Help is checked first, then version, each
// anywhere in the token list; the remaining flags are then read in order.
func Parse(tokens []string) (*Options, error) {
	if hasFlag(tokens, "--help", "-h") {
		return &Options{ShowHelp: true}, nil
	}
	if hasFlag(tokens, "--version", "-v") {
		return &Options{ShowVersion: true}, nil
	}

	opts := &Options{Format: render.FormatLines}
	for _, tok := range tokens {
		if !strings.HasPrefix(tok, "-") {
			opts.Queries = append(opts.Queries, Unquote(tok))
			continue
		}

		name, value, hasValue := strings.Cut(tok, "=")
		value = Unquote(value)

		var err error
		switch name {
		case "--coverage", "-c":
			opts.Coverage = true
			opts.Countries = splitList(value)
		case "--config", "-b":
			opts.ConfigPath, err = required(name, value, hasValue)
		case "--env", "-e":
			opts.Env, err = required(name, value, hasValue)
		case "--stats", "-s":
			opts.StatsPath, err = required(name, value, hasValue)
		case "--json":
			opts.Format = render.FormatJSON
		case "--format":
			var raw string
			if raw, err = required(name, value, hasValue); err == nil {
				opts.Format, err = parseFormat(raw)
			}
		case "--no-color":
			opts.NoColor = true
		case "--tui":
			opts.TUI = true
		case "--ignore-unknown-versions":
			opts.IgnoreUnknownVersions = true
		default:
			return nil, types.Errorf(types.ErrUnknownArgument, "Unknown arguments: %s", tok)
		}
		if err != nil {
			return nil, err
		}
	}
	return opts, nil
}

// Unquote strips one leading and one trailing quote character.
func Unquote(s string) string {
	if s != "" && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if s != "" && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return s
}

func hasFlag(tokens []string, names ...string) bool {
	for _, tok := range tokens {
		name, _, _ := strings.Cut(tok, "=")
		for _, n := range names {
			if name == n {
				return true
			}
		}
	}
	return false
}

func required(name, value string, hasValue bool) (string, error) {
	if !hasValue || value == "" {
		return "", types.Errorf(types.ErrUnknownArgument, "Missing value for %s", name)
	}
	return value, nil
}

func parseFormat(raw string) (render.Format, error) {
	f, err := render.ParseFormat(raw)
	if err != nil {
		return "", types.Wrap(types.ErrUnknownArgument, err, "%v", err)
	}
	return f, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
