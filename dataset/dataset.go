// Package dataset provides the bundled browser agents and usage tables.
//
// The data ships inside the binary (embed) as YAML and is parsed once per
// Load call. Regional usage tables are parsed lazily on first access.
package dataset

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/agents.yaml data/regions/*.yaml
var files embed.FS

// aliases maps alternative browser names to agent names.
// Lookups are case-insensitive; keys are lowercase.
var aliases = map[string]string{
	"fx":             "firefox",
	"ff":             "firefox",
	"ios":            "ios_saf",
	"explorer":       "ie",
	"blackberry":     "bb",
	"explorermobile": "ie_mob",
	"operamini":      "op_mini",
	"operamobile":    "op_mob",
	"chromeandroid":  "and_chr",
	"firefoxandroid": "and_ff",
	"ucandroid":      "and_uc",
	"qqandroid":      "and_qq",
}

// Agent is one browser with its known versions and global usage.
type Agent struct {
	// Name is the canonical agent name (e.g. "ie", "ios_saf").
	Name string `yaml:"-"`
	// Released lists released versions, oldest first.
	Released []string `yaml:"released"`
	// Unreleased lists upcoming versions, oldest first.
	Unreleased []string `yaml:"unreleased"`
	// Usage maps version to percent of global usage.
	Usage map[string]float64 `yaml:"usage"`
	// VersionAliases maps each endpoint of a ranged version ("10.0" for
	// "10.0-10.2") to the ranged version.
	VersionAliases map[string]string `yaml:"-"`
}

// Versions returns released followed by unreleased versions.
func (a *Agent) Versions() []string {
	out := make([]string, 0, len(a.Released)+len(a.Unreleased))
	out = append(out, a.Released...)
	return append(out, a.Unreleased...)
}

// Normalize maps version to the form stored in the agent data.
// It returns false when the version is unknown.
func (a *Agent) Normalize(version string) (string, bool) {
	for _, v := range a.Versions() {
		if strings.EqualFold(v, version) {
			return v, true
		}
	}
	if full, ok := a.VersionAliases[version]; ok {
		return full, true
	}
	return "", false
}

// Data holds all agents plus the global usage table.
type Data struct {
	// Updated is the snapshot date of the bundled data.
	Updated string            `yaml:"updated"`
	Agents  map[string]*Agent `yaml:"agents"`

	global Usage

	mu      sync.Mutex
	regions map[string]Usage
}

// Load parses the bundled dataset.
func Load() (*Data, error) {
	raw, err := files.ReadFile("data/agents.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading bundled agents: %w", err)
	}
	return Parse(raw)
}

// Parse decodes an agents document in the bundled YAML layout.
func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("invalid agents data: %w", err)
	}
	if len(d.Agents) == 0 {
		return nil, fmt.Errorf("invalid agents data: no agents")
	}

	d.global = make(Usage)
	for name, agent := range d.Agents {
		if agent == nil {
			return nil, fmt.Errorf("invalid agents data: empty agent %q", name)
		}
		agent.Name = name
		agent.VersionAliases = versionAliases(agent.Versions())
		for version, share := range agent.Usage {
			d.global[name+" "+version] = share
		}
	}
	d.regions = make(map[string]Usage)
	return &d, nil
}

// versionAliases indexes both ends of ranged versions like "4.2-4.3".
func versionAliases(versions []string) map[string]string {
	out := make(map[string]string)
	for _, full := range versions {
		if !strings.Contains(full, "-") {
			continue
		}
		for _, part := range strings.Split(full, "-") {
			out[part] = full
		}
	}
	return out
}

// Agent looks up an agent by name or alias, case-insensitively.
func (d *Data) Agent(name string) (*Agent, bool) {
	key := CanonicalName(name)
	a, ok := d.Agents[key]
	return a, ok
}

// Names returns agent names in sorted order.
func (d *Data) Names() []string {
	names := make([]string, 0, len(d.Agents))
	for name := range d.Agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Global returns the global usage table keyed by "name version".
func (d *Data) Global() Usage {
	return d.global
}

// CanonicalName lowercases name and resolves known aliases.
func CanonicalName(name string) string {
	key := strings.ToLower(name)
	if alias, ok := aliases[key]; ok {
		return alias
	}
	return key
}
