package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownRegion is returned by Region for codes without a bundled table.
var ErrUnknownRegion = errors.New("unknown region")

// Usage maps "name version" to percent of users.
type Usage map[string]float64

// Share returns the usage of a "name version" entry. A missing exact entry
// falls back to "name 0", the slot used for versionless agents.
func (u Usage) Share(browser string) float64 {
	if share, ok := u[browser]; ok {
		return share
	}
	if i := strings.LastIndexByte(browser, ' '); i >= 0 {
		return u[browser[:i]+" 0"]
	}
	return 0
}

// Sum returns the total usage of the given browsers.
func (u Usage) Sum(browsers []string) float64 {
	var total float64
	for _, b := range browsers {
		total += u.Share(b)
	}
	return total
}

// regionFile is the on-disk layout of data/regions/<CODE>.yaml.
type regionFile struct {
	Name  string                        `yaml:"name"`
	Usage map[string]map[string]float64 `yaml:"usage"`
}

// NormalizeRegion upper-cases two-letter country codes and lower-cases
// longer codes such as "alt-as".
func NormalizeRegion(code string) string {
	if len(code) > 2 {
		return strings.ToLower(code)
	}
	return strings.ToUpper(code)
}

// Region returns the usage table for a country code, loading it on first use.
func (d *Data) Region(code string) (Usage, error) {
	code = NormalizeRegion(code)

	d.mu.Lock()
	defer d.mu.Unlock()

	if u, ok := d.regions[code]; ok {
		return u, nil
	}

	raw, err := files.ReadFile("data/regions/" + code + ".yaml")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRegion, code)
		}
		return nil, fmt.Errorf("reading region %s: %w", code, err)
	}

	var rf regionFile
	if err := yaml.Unmarshal(raw, &rf); err != nil {
		return nil, fmt.Errorf("invalid region data %s: %w", code, err)
	}

	u := make(Usage)
	for name, versions := range rf.Usage {
		for version, share := range versions {
			u[name+" "+version] = share
		}
	}
	d.regions[code] = u
	return u, nil
}

// Regions lists the bundled region codes.
func Regions() []string {
	entries, err := files.ReadDir("data/regions")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	return out
}
