// Package render provides output rendering for the browserslist CLI.
//
// Format rules:
//   - lines (default) prints one browser per line, or one coverage
//     sentence per region when coverage was requested
//   - json and yaml print the whole report as a document
//   - table prints a bordered table of the same rows
//
// Color handling:
//   - --no-color affects table output and error messages only
//   - TUI mode is unaffected by --no-color (uses its own styling)
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/pithecene-io/browserslist/cli/tui"
	"github.com/pithecene-io/browserslist/dataset"
)

// Format represents an output format.
type Format string

// Supported formats.
const (
	FormatLines Format = "lines"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ParseFormat parses a format string, returning an error for invalid formats.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "lines":
		return FormatLines, nil
	case "json":
		return FormatJSON, nil
	case "table":
		return FormatTable, nil
	case "yaml":
		return FormatYAML, nil
	case "":
		return "", nil // Let caller decide default
	default:
		return "", fmt.Errorf("invalid format: %q (must be lines, json, yaml, or table)", s)
	}
}

// MyStatsRegion is the coverage region backed by custom usage statistics.
const MyStatsRegion = "my stats"

// CoverageLine is the coverage of the selected browsers in one region.
type CoverageLine struct {
	// Region is "" for global usage, MyStatsRegion, or a country code.
	Region string
	// Percent is the unrounded coverage.
	Percent float64
}

// Key names the region in structured output.
func (l CoverageLine) Key() string {
	if l.Region == "" {
		return "global"
	}
	return dataset.NormalizeRegion(l.Region)
}

// Where completes the coverage sentence.
func (l CoverageLine) Where() string {
	switch {
	case l.Region == "":
		return "globally"
	case strings.EqualFold(l.Region, MyStatsRegion):
		return "in my stats"
	default:
		return "in the " + dataset.NormalizeRegion(l.Region)
	}
}

// Sentence renders the human-readable coverage line.
func (l CoverageLine) Sentence() string {
	return fmt.Sprintf("These browsers account for %s%% of all users %s", FormatPercent(l.Percent), l.Where())
}

// Report is a successful invocation result.
type Report struct {
	// Browsers is the resolved browser list in engine order.
	Browsers []string
	// Coverage is set when coverage was requested, one line per region.
	Coverage []CoverageLine
}

// HasCoverage reports whether the report is a coverage report.
func (r Report) HasCoverage() bool {
	return len(r.Coverage) > 0
}

// RoundPercent rounds half up to two decimal places.
func RoundPercent(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// FormatPercent rounds v and prints it with the fewest digits needed.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(RoundPercent(v), 'f', -1, 64)
}

// document is the json/yaml shape of a report.
type document struct {
	Browsers []string           `json:"browsers" yaml:"browsers"`
	Coverage map[string]float64 `json:"coverage,omitempty" yaml:"coverage,omitempty"`
}

func newDocument(rep Report) document {
	doc := document{Browsers: rep.Browsers}
	if doc.Browsers == nil {
		doc.Browsers = []string{}
	}
	if rep.HasCoverage() {
		doc.Coverage = make(map[string]float64, len(rep.Coverage))
		for _, l := range rep.Coverage {
			doc.Coverage[l.Key()] = RoundPercent(l.Percent)
		}
	}
	return doc
}

// Renderer handles output formatting.
type Renderer struct {
	format  Format
	noColor bool
	out     io.Writer
}

// NewRendererWithWriter creates a renderer with a custom writer (for testing).
func NewRendererWithWriter(format Format, noColor bool, out io.Writer) *Renderer {
	if format == "" {
		format = FormatLines
	}
	return &Renderer{
		format:  format,
		noColor: noColor,
		out:     out,
	}
}

// Render outputs the report in the configured format.
func (r *Renderer) Render(rep Report) error {
	switch r.format {
	case FormatLines:
		return r.renderLines(rep)
	case FormatJSON:
		return r.renderJSON(rep)
	case FormatTable:
		return r.renderTable(rep)
	case FormatYAML:
		return r.renderYAML(rep)
	default:
		return fmt.Errorf("unknown format: %s", r.format)
	}
}

// RenderTUI shows the report in the interactive view. When the output is
// not a terminal the view is printed once instead.
func (r *Renderer) RenderTUI(rep Report, queries []string) error {
	summary := Summary(rep, queries)
	if !IsTerminal(r.out) {
		_, err := fmt.Fprintln(r.out, tui.RenderStatic(summary))
		return err
	}
	return tui.Run(summary)
}

// Summary converts a report into the TUI's view data.
func Summary(rep Report, queries []string) tui.Summary {
	s := tui.Summary{Queries: queries, Browsers: rep.Browsers}
	for _, l := range rep.Coverage {
		s.Coverage = append(s.Coverage, tui.Share{
			Label:   l.Where(),
			Percent: FormatPercent(l.Percent) + "%",
		})
	}
	return s
}

func (r *Renderer) renderLines(rep Report) error {
	if rep.HasCoverage() {
		for _, l := range rep.Coverage {
			if _, err := fmt.Fprintln(r.out, l.Sentence()); err != nil {
				return err
			}
		}
		return nil
	}
	for _, b := range rep.Browsers {
		if _, err := fmt.Fprintln(r.out, b); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderJSON(rep Report) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(newDocument(rep))
}

func (r *Renderer) renderYAML(rep Report) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(newDocument(rep)); err != nil {
		return err
	}
	return enc.Close()
}

func (r *Renderer) renderTable(rep Report) error {
	var header []string
	var rows [][]string
	if rep.HasCoverage() {
		header = []string{"Region", "Coverage"}
		for _, l := range rep.Coverage {
			rows = append(rows, []string{l.Key(), FormatPercent(l.Percent) + "%"})
		}
	} else {
		header = []string{"Browser", "Version"}
		for _, b := range rep.Browsers {
			name, version, _ := strings.Cut(b, " ")
			rows = append(rows, []string{name, version})
		}
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(r.out, "(no results)")
		return err
	}

	table := tablewriter.NewWriter(r.out)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	if !r.noColor && IsTerminal(r.out) {
		table.SetHeaderColor(
			tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiBlueColor},
			tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiBlueColor},
		)
	}
	table.AppendBulk(rows)
	table.Render()
	return nil
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
