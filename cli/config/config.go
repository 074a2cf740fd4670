// Package config finds, reads and parses browserslist config files.
//
// Three layouts are understood:
//
//   - text (browserslist, .browserslistrc): one query per line or comma,
//     "#" comments, and [name other] headers opening environment sections
//   - YAML (.browserslistrc.yaml, .browserslistrc.yml): a sequence of
//     queries, or a mapping of section name to queries
//   - package.json: the "browserslist" key holding queries or an object of
//     section name to queries
//
// Queries outside any section, and a section named "defaults", form the
// defaults used when no section matches the environment name.
package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/pithecene-io/browserslist/types"
)

// Environment variables consulted while resolving a config.
const (
	ConfigEnvVar = "BROWSERSLIST_CONFIG"
	EnvEnvVar    = "BROWSERSLIST_ENV"
	NodeEnvVar   = "NODE_ENV"
)

// DefaultEnv is the environment name used when none is given.
const DefaultEnv = "development"

// defaultsSection is the reserved section holding default queries.
const defaultsSection = "defaults"

// File names checked in each directory, in precedence order.
const (
	TextName    = "browserslist"
	RCName      = ".browserslistrc"
	RCYAMLName  = ".browserslistrc.yaml"
	RCYMLName   = ".browserslistrc.yml"
	PackageName = "package.json"
	packageKey  = "browserslist"
)

// Candidates lists the config file names looked for during discovery.
var Candidates = []string{TextName, RCName, RCYAMLName, RCYMLName, PackageName}

// File is a parsed config.
type File struct {
	// Path is the absolute path the config was read from.
	Path string
	// Defaults are the queries used when no named section matches.
	Defaults []string
	// Named maps section names to their queries.
	Named map[string][]string
}

// Pick returns the queries for env: the named section when it exists
// (even when empty), otherwise the defaults.
func (f *File) Pick(env string) []string {
	if q, ok := f.Named[env]; ok {
		return q
	}
	return f.Defaults
}

// Sections returns the named section names in sorted order.
func (f *File) Sections() []string {
	names := make([]string, 0, len(f.Named))
	for name := range f.Named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnvName picks the config section name: the --env value, then
// BROWSERSLIST_ENV, then NODE_ENV, then DefaultEnv.
func EnvName(flag string, env types.Environment) string {
	if flag != "" {
		return flag
	}
	for _, name := range []string{EnvEnvVar, NodeEnvVar} {
		if v := env.Get(name); v != "" {
			return v
		}
	}
	return DefaultEnv
}

// Parse decodes data according to the layout implied by the file name.
// path is only used to pick the layout and for error messages.
func Parse(path string, data []byte) (*File, error) {
	base := filepath.Base(path)
	switch {
	case base == PackageName:
		f, _, err := ParsePackage(path, data)
		return f, err
	case strings.HasSuffix(base, ".yaml"), strings.HasSuffix(base, ".yml"):
		return ParseYAML(path, data)
	default:
		return ParseText(path, string(data))
	}
}

var sectionPattern = regexp.MustCompile(`^\s*\[(.+)\]\s*$`)

var commentPattern = regexp.MustCompile(`#[^\n]*`)

// ParseText parses the text layout.
func ParseText(path, text string) (*File, error) {
	f := newFile(path)
	seen := make(map[string]bool)
	current := []string{defaultsSection}

	text = commentPattern.ReplaceAllString(text, "")
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := sectionPattern.FindStringSubmatch(line); m != nil {
			current = strings.Fields(m[1])
			for _, name := range current {
				if seen[name] {
					return nil, types.Errorf(types.ErrInvalidConfig,
						"Duplicate section %s in Browserslist config", name)
				}
				seen[name] = true
				f.ensure(name)
			}
			continue
		}

		for _, name := range current {
			f.add(name, splitEntries(line)...)
		}
	}
	return f, nil
}

// ParseYAML parses the YAML layout.
func ParseYAML(path string, data []byte) (*File, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, types.Wrap(types.ErrInvalidConfig, err, "Invalid YAML in %s: %v", path, err)
	}

	f := newFile(path)
	if len(node.Content) == 0 {
		return f, nil
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode, yaml.ScalarNode:
		queries, err := yamlQueries(path, root)
		if err != nil {
			return nil, err
		}
		f.add(defaultsSection, queries...)
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			name := root.Content[i].Value
			queries, err := yamlQueries(path, root.Content[i+1])
			if err != nil {
				return nil, err
			}
			f.ensure(name)
			f.add(name, queries...)
		}
	default:
		return nil, types.Errorf(types.ErrInvalidConfig, "Invalid config in %s: expected queries", path)
	}
	return f, nil
}

func yamlQueries(path string, n *yaml.Node) ([]string, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return splitEntries(n.Value), nil
	case yaml.SequenceNode:
		var out []string
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, types.Errorf(types.ErrInvalidConfig,
					"Invalid config in %s: queries must be strings", path)
			}
			out = append(out, splitEntries(item.Value)...)
		}
		return out, nil
	default:
		return nil, types.Errorf(types.ErrInvalidConfig,
			"Invalid config in %s: queries must be a string or a list", path)
	}
}

// ParsePackage parses the browserslist key of a package.json. The boolean
// reports whether the key was present; a package.json without it is not a
// config.
func ParsePackage(path string, data []byte) (*File, bool, error) {
	var pkg map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
		return nil, false, types.Wrap(types.ErrInvalidConfig, err, "Invalid JSON in %s: %v", path, err)
	}

	raw, ok := pkg[packageKey]
	if !ok {
		return nil, false, nil
	}

	f := newFile(path)
	if queries, err := jsonQueries(raw); err == nil {
		f.add(defaultsSection, queries...)
		return f, true, nil
	}

	var sections map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, true, types.Errorf(types.ErrInvalidConfig,
			"Invalid config in %s: %q must be queries or an object of queries", path, packageKey)
	}
	for name, v := range sections {
		queries, err := jsonQueries(v)
		if err != nil {
			return nil, true, types.Errorf(types.ErrInvalidConfig,
				"Invalid config in %s: section %s must be queries", path, name)
		}
		f.ensure(name)
		f.add(name, queries...)
	}
	return f, true, nil
}

// jsonQueries decodes a string or an array of strings.
func jsonQueries(raw json.RawMessage) ([]string, error) {
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return splitEntries(one), nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, fmt.Errorf("not a query list: %w", err)
	}
	var out []string
	for _, q := range many {
		out = append(out, splitEntries(q)...)
	}
	return out, nil
}

func newFile(path string) *File {
	return &File{Path: path, Named: make(map[string][]string)}
}

// ensure creates an empty named section so that Pick selects it.
func (f *File) ensure(name string) {
	if name == defaultsSection {
		return
	}
	if _, ok := f.Named[name]; !ok {
		f.Named[name] = []string{}
	}
}

func (f *File) add(name string, queries ...string) {
	if name == defaultsSection {
		f.Defaults = append(f.Defaults, queries...)
		return
	}
	f.Named[name] = append(f.Named[name], queries...)
}

// splitEntries splits a line on commas, dropping empty entries.
func splitEntries(line string) []string {
	var out []string
	for _, part := range strings.Split(line, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
