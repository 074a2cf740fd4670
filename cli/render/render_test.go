package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Format
		wantErr bool
	}{
		{"lines", "lines", FormatLines, false},
		{"json lowercase", "json", FormatJSON, false},
		{"json uppercase", "JSON", FormatJSON, false},
		{"table", "table", FormatTable, false},
		{"yaml", "yaml", FormatYAML, false},
		{"empty", "", "", false},
		{"invalid", "xml", "", true},
		{"invalid with message", "csv", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat_InvalidErrorMessage(t *testing.T) {
	_, err := ParseFormat("xml")
	if err == nil {
		t.Fatal("expected error for invalid format")
	}
	if !strings.Contains(err.Error(), "lines, json, yaml, or table") {
		t.Errorf("error message should mention valid formats, got: %v", err)
	}
}

func TestRoundPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3.333, "3.33"},
		{0.114, "0.11"},
		{0.115, "0.12"},
		{27.1, "27.1"},
		{1, "1"},
		{0, "0"},
		{99.999, "100"},
		{0.005, "0.01"},
	}
	for _, tt := range tests {
		if got := FormatPercent(tt.in); got != tt.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCoverageLine_Sentence(t *testing.T) {
	tests := []struct {
		line CoverageLine
		want string
	}{
		{CoverageLine{Percent: 3.333}, "These browsers account for 3.33% of all users globally"},
		{CoverageLine{Region: "US", Percent: 0.114}, "These browsers account for 0.11% of all users in the US"},
		{CoverageLine{Region: "us", Percent: 0.114}, "These browsers account for 0.11% of all users in the US"},
		{CoverageLine{Region: MyStatsRegion, Percent: 27.1}, "These browsers account for 27.1% of all users in my stats"},
	}
	for _, tt := range tests {
		if got := tt.line.Sentence(); got != tt.want {
			t.Errorf("Sentence() = %q, want %q", got, tt.want)
		}
	}
}

func TestCoverageLine_Key(t *testing.T) {
	tests := []struct {
		region string
		want   string
	}{
		{"", "global"},
		{"gb", "GB"},
		{"My Stats", MyStatsRegion},
		{"alt-AS", "alt-as"},
	}
	for _, tt := range tests {
		if got := (CoverageLine{Region: tt.region}).Key(); got != tt.want {
			t.Errorf("Key(%q) = %q, want %q", tt.region, got, tt.want)
		}
	}
}

func TestRenderer_Lines(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatLines, false, &buf)

	if err := r.Render(Report{Browsers: []string{"ie 11", "ie 10"}}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got, want := buf.String(), "ie 11\nie 10\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRenderer_LinesCoverage(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter("", false, &buf)

	rep := Report{
		Browsers: []string{"ie 8"},
		Coverage: []CoverageLine{{Region: "US", Percent: 0.114}, {Region: "GB", Percent: 0.2}},
	}
	if err := r.Render(rep); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	want := "These browsers account for 0.11% of all users in the US\n" +
		"These browsers account for 0.2% of all users in the GB\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRenderer_JSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatJSON, false, &buf)

	rep := Report{
		Browsers: []string{"ie 11", "ie 10"},
		Coverage: []CoverageLine{{Percent: 3.333}, {Region: "US", Percent: 4.137}},
	}
	if err := r.Render(rep); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var got document
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if len(got.Browsers) != 2 || got.Browsers[0] != "ie 11" {
		t.Errorf("browsers = %v", got.Browsers)
	}
	if got.Coverage["global"] != 3.33 || got.Coverage["US"] != 4.14 {
		t.Errorf("coverage = %v", got.Coverage)
	}
}

func TestRenderer_JSONWithoutCoverage(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatJSON, false, &buf)

	if err := r.Render(Report{}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, `"browsers": []`) {
		t.Errorf("empty browsers should encode as [], got: %s", got)
	}
	if strings.Contains(got, "coverage") {
		t.Errorf("coverage should be omitted, got: %s", got)
	}
}

func TestRenderer_YAML(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatYAML, false, &buf)

	rep := Report{
		Browsers: []string{"ie 11"},
		Coverage: []CoverageLine{{Region: MyStatsRegion, Percent: 17}},
	}
	if err := r.Render(rep); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	var got document
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid YAML %q: %v", buf.String(), err)
	}
	if got.Coverage["my stats"] != 17 {
		t.Errorf("coverage = %v", got.Coverage)
	}
}

func TestRenderer_TableBrowsers(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, false, &buf)

	if err := r.Render(Report{Browsers: []string{"ie 11", "op_mini all"}}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	for _, want := range []string{"Browser", "Version", "ie", "11", "op_mini", "all"} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "\x1b[") {
		t.Errorf("non-terminal table should not be colored:\n%s", got)
	}
}

func TestRenderer_TableCoverage(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, true, &buf)

	rep := Report{Coverage: []CoverageLine{{Percent: 3.333}}}
	if err := r.Render(rep); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "global") || !strings.Contains(got, "3.33%") {
		t.Errorf("table missing coverage row:\n%s", got)
	}
}

func TestRenderer_TableEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatTable, false, &buf)

	if err := r.Render(Report{}); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "(no results)") {
		t.Errorf("empty report should show '(no results)', got: %s", buf.String())
	}
}

func TestRenderer_NoColor_DoesNotAffectJSON(t *testing.T) {
	var bufColor, bufNoColor bytes.Buffer

	rep := Report{Browsers: []string{"ie 11"}}
	if err := NewRendererWithWriter(FormatJSON, false, &bufColor).Render(rep); err != nil {
		t.Fatalf("Render with color failed: %v", err)
	}
	if err := NewRendererWithWriter(FormatJSON, true, &bufNoColor).Render(rep); err != nil {
		t.Fatalf("Render without color failed: %v", err)
	}

	if bufColor.String() != bufNoColor.String() {
		t.Errorf("--no-color should not affect JSON output")
	}
}

func TestRenderer_TUIFallsBackToStatic(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithWriter(FormatLines, false, &buf)

	rep := Report{Browsers: []string{"ie 11", "ie 10"}, Coverage: []CoverageLine{{Percent: 3.333}}}
	if err := r.RenderTUI(rep, []string{"ie >= 10"}); err != nil {
		t.Fatalf("RenderTUI failed: %v", err)
	}
	got := buf.String()
	for _, want := range []string{"ie >= 10", "3.33%", "11", "10"} {
		if !strings.Contains(got, want) {
			t.Errorf("static view missing %q:\n%s", want, got)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("buffer is not a terminal")
	}
}
