package query

import (
	"regexp"
	"strconv"

	"github.com/pithecene-io/browserslist/dataset"
	"github.com/pithecene-io/browserslist/types"
)

// selector pairs a query pattern with the function selecting its browsers.
// Patterns are tried in order; the first match wins.
type selector struct {
	pattern *regexp.Regexp
	sel     func(b *Browserslist, m []string) ([]string, error)
}

var selectors = []selector{
	{
		pattern: regexp.MustCompile(`(?i)^last\s+(\d+)\s+versions?$`),
		sel: func(b *Browserslist, m []string) ([]string, error) {
			n, _ := strconv.Atoi(m[1])
			var out []string
			for _, name := range b.data.Names() {
				out = append(out, entries(name, lastN(b.data.Agents[name].Released, n))...)
			}
			return out, nil
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)^last\s+(\d+)\s+(\w+)\s+versions?$`),
		sel: func(b *Browserslist, m []string) ([]string, error) {
			n, _ := strconv.Atoi(m[1])
			agent, err := b.agent(m[2])
			if err != nil {
				return nil, err
			}
			return entries(agent.Name, lastN(agent.Released, n)), nil
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)^unreleased\s+versions$`),
		sel: func(b *Browserslist, _ []string) ([]string, error) {
			var out []string
			for _, name := range b.data.Names() {
				out = append(out, entries(name, b.data.Agents[name].Unreleased)...)
			}
			return out, nil
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)^unreleased\s+(\w+)\s+versions?$`),
		sel: func(b *Browserslist, m []string) ([]string, error) {
			agent, err := b.agent(m[1])
			if err != nil {
				return nil, err
			}
			return entries(agent.Name, agent.Unreleased), nil
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)^(>=?|<=?)\s*(\d*\.?\d+)%$`),
		sel: func(b *Browserslist, m []string) ([]string, error) {
			return byUsage(b.data.Global(), m[1], m[2]), nil
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)^(>=?|<=?)\s*(\d*\.?\d+)%\s+in\s+my\s+stats$`),
		sel: func(b *Browserslist, m []string) ([]string, error) {
			u, err := b.usageFor(MyStats)
			if err != nil {
				return nil, err
			}
			return byUsage(u, m[1], m[2]), nil
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)^(>=?|<=?)\s*(\d*\.?\d+)%\s+in\s+((alt-)?\w\w)$`),
		sel: func(b *Browserslist, m []string) ([]string, error) {
			u, err := b.usageFor(m[3])
			if err != nil {
				return nil, err
			}
			return byUsage(u, m[1], m[2]), nil
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)^(firefox|ff|fx)\s+esr$`),
		sel: func(*Browserslist, []string) ([]string, error) {
			return []string{"firefox 52"}, nil
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)^(operamini|op_mini)\s+all$`),
		sel: func(*Browserslist, []string) ([]string, error) {
			return []string{"op_mini all"}, nil
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)^(\w+)\s+(>=?|<=?)\s*([\d.]+)$`),
		sel: func(b *Browserslist, m []string) ([]string, error) {
			agent, err := b.agent(m[1])
			if err != nil {
				return nil, err
			}
			target := parseFloat(m[3])
			var out []string
			for _, v := range agent.Released {
				if compare(parseFloat(v), m[2], target) {
					out = append(out, agent.Name+" "+v)
				}
			}
			return out, nil
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)^(\w+)\s+([\d.]+)\s*-\s*([\d.]+)$`),
		sel: func(b *Browserslist, m []string) ([]string, error) {
			agent, err := b.agent(m[1])
			if err != nil {
				return nil, err
			}
			from, to := parseFloat(m[2]), parseFloat(m[3])
			var out []string
			for _, v := range agent.Released {
				f := parseFloat(v)
				if f >= from && f <= to {
					out = append(out, agent.Name+" "+v)
				}
			}
			return out, nil
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)^(\w+)\s+(tp|[\d.]+)$`),
		sel: func(b *Browserslist, m []string) ([]string, error) {
			agent, err := b.agent(m[1])
			if err != nil {
				return nil, err
			}
			version, ok := agent.Normalize(m[2])
			if !ok {
				if b.ignoreUnknownVersions {
					return nil, nil
				}
				return nil, types.Errorf(types.ErrUnknownVersion, "Unknown version %s of %s", m[2], m[1])
			}
			return []string{agent.Name + " " + version}, nil
		},
	},
}

// defaultsSelector expands "defaults". It resolves back through the
// selector table, so it joins the table in init.
var defaultsSelector = selector{
	pattern: regexp.MustCompile(`(?i)^defaults$`),
	sel: func(b *Browserslist, _ []string) ([]string, error) {
		return b.Resolve(Defaults)
	},
}

func init() {
	selectors = append(selectors, defaultsSelector)
}

func (b *Browserslist) agent(name string) (*dataset.Agent, error) {
	agent, ok := b.data.Agent(name)
	if !ok {
		return nil, types.Errorf(types.ErrUnknownBrowser, "Unknown browser %s", name)
	}
	return agent, nil
}

// byUsage selects entries whose share compares to popularity by sign.
func byUsage(u dataset.Usage, sign, popularity string) []string {
	target := parseFloat(popularity)
	var out []string
	for browser, share := range u {
		if compare(share, sign, target) {
			out = append(out, browser)
		}
	}
	return out
}

func compare(v float64, sign string, target float64) bool {
	switch sign {
	case ">":
		return v > target
	case ">=":
		return v >= target
	case "<":
		return v < target
	case "<=":
		return v <= target
	default:
		return false
	}
}

func lastN(versions []string, n int) []string {
	if n >= len(versions) {
		return versions
	}
	return versions[len(versions)-n:]
}

func entries(name string, versions []string) []string {
	out := make([]string, 0, len(versions))
	for _, v := range versions {
		out = append(out, name+" "+v)
	}
	return out
}
