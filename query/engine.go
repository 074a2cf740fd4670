// Package query evaluates browser queries against the bundled dataset.
//
// Engine is the capability the CLI depends on. Browserslist is the
// built-in implementation; tests of the CLI substitute their own.
package query

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/pithecene-io/browserslist/dataset"
	"github.com/pithecene-io/browserslist/types"
)

// MyStats is the coverage region naming the custom usage table.
const MyStats = "my stats"

// Defaults is the query list the "defaults" keyword expands to.
var Defaults = []string{"> 1%", "last 2 versions", "Firefox ESR"}

// Engine resolves queries to browsers and computes usage coverage.
type Engine interface {
	// Resolve returns "name version" entries matching the queries.
	Resolve(queries []string) ([]string, error)
	// Coverage returns the percent of users the browsers account for in
	// region: "" for global, MyStats for custom stats, or a country code.
	Coverage(browsers []string, region string) (float64, error)
}

// Browserslist is the built-in Engine.
type Browserslist struct {
	data                  *dataset.Data
	custom                dataset.Usage
	ignoreUnknownVersions bool
}

// Verify Browserslist implements Engine.
var _ Engine = (*Browserslist)(nil)

// Option configures a Browserslist engine.
type Option func(*Browserslist)

// WithCustomUsage supplies the table used by "in my stats" queries and
// MyStats coverage.
func WithCustomUsage(u dataset.Usage) Option {
	return func(b *Browserslist) { b.custom = u }
}

// WithIgnoreUnknownVersions makes direct version queries for versions
// missing from the dataset select nothing instead of failing.
func WithIgnoreUnknownVersions(ignore bool) Option {
	return func(b *Browserslist) { b.ignoreUnknownVersions = ignore }
}

// New creates an engine over data.
func New(data *dataset.Data, opts ...Option) *Browserslist {
	b := &Browserslist{data: data}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var clauseSeparator = regexp.MustCompile(`,\s*`)

// Split breaks each query on commas and drops empty clauses.
func Split(queries []string) []string {
	var out []string
	for _, q := range queries {
		for _, clause := range clauseSeparator.Split(q, -1) {
			clause = strings.TrimSpace(clause)
			if clause != "" {
				out = append(out, clause)
			}
		}
	}
	return out
}

// Resolve implements Engine.
// Clauses apply in order: "not <query>" removes its matches from what the
// preceding clauses selected.
func (b *Browserslist) Resolve(queries []string) ([]string, error) {
	var result []string
	for _, clause := range Split(queries) {
		selection := clause
		exclude := false
		if len(selection) > 4 && strings.EqualFold(selection[:4], "not ") {
			exclude = true
			selection = strings.TrimSpace(selection[4:])
		}

		matched, err := b.selectClause(selection)
		if err != nil {
			return nil, err
		}

		if exclude {
			result = without(result, matched)
		} else {
			result = append(result, matched...)
		}
	}
	return SortBrowsers(uniq(result)), nil
}

func (b *Browserslist) selectClause(selection string) ([]string, error) {
	for _, s := range selectors {
		m := s.pattern.FindStringSubmatch(selection)
		if m == nil {
			continue
		}
		return s.sel(b, m)
	}
	return nil, types.Errorf(types.ErrUnknownBrowserQuery, "Unknown browser query `%s`", selection)
}

// Coverage implements Engine.
func (b *Browserslist) Coverage(browsers []string, region string) (float64, error) {
	usage, err := b.usageFor(region)
	if err != nil {
		return 0, err
	}
	return usage.Sum(browsers), nil
}

func (b *Browserslist) usageFor(region string) (dataset.Usage, error) {
	switch {
	case region == "" || strings.EqualFold(region, "global"):
		return b.data.Global(), nil
	case strings.EqualFold(region, MyStats):
		if b.custom == nil {
			return nil, types.Errorf(types.ErrStatsUnavailable, "Custom usage statistics was not provided")
		}
		return b.custom, nil
	default:
		u, err := b.data.Region(region)
		if err != nil {
			if errors.Is(err, dataset.ErrUnknownRegion) {
				return nil, &types.Error{
					Kind:    types.ErrUnknownRegion,
					Message: "Unknown region name `" + dataset.NormalizeRegion(region) + "`.",
					Err:     err,
				}
			}
			return nil, err
		}
		return u, nil
	}
}

// SortBrowsers orders entries by browser name ascending, then by version
// descending. Versions without a numeric prefix keep their relative order.
func SortBrowsers(browsers []string) []string {
	sort.SliceStable(browsers, func(i, j int) bool {
		ni, vi := splitEntry(browsers[i])
		nj, vj := splitEntry(browsers[j])
		if ni != nj {
			return ni < nj
		}
		return parseFloat(vi) > parseFloat(vj)
	})
	return browsers
}

func splitEntry(entry string) (name, version string) {
	name, version, _ = strings.Cut(entry, " ")
	return name, version
}

func uniq(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func without(in, remove []string) []string {
	drop := make(map[string]bool, len(remove))
	for _, s := range remove {
		drop[s] = true
	}
	out := in[:0:0]
	for _, s := range in {
		if !drop[s] {
			out = append(out, s)
		}
	}
	return out
}
