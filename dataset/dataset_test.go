package dataset

import (
	"errors"
	"math"
	"testing"
)

func mustLoad(t *testing.T) *Data {
	t.Helper()
	d, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return d
}

func TestLoad_BundledData(t *testing.T) {
	d := mustLoad(t)

	if d.Updated == "" {
		t.Error("expected snapshot date")
	}
	for _, name := range []string{"ie", "edge", "firefox", "chrome", "safari", "opera", "ios_saf", "op_mini", "and_chr"} {
		a, ok := d.Agents[name]
		if !ok {
			t.Errorf("missing agent %q", name)
			continue
		}
		if a.Name != name {
			t.Errorf("agent %q has Name %q", name, a.Name)
		}
		if len(a.Released) == 0 {
			t.Errorf("agent %q has no released versions", name)
		}
		for _, v := range a.Released {
			if _, ok := a.Usage[v]; !ok {
				t.Errorf("agent %q version %q has no usage entry", name, v)
			}
		}
	}
}

func TestAgent_CaseInsensitiveAliases(t *testing.T) {
	d := mustLoad(t)

	tests := []struct {
		input string
		want  string
	}{
		{"ie", "ie"},
		{"IE", "ie"},
		{"Explorer", "ie"},
		{"fx", "firefox"},
		{"FF", "firefox"},
		{"ios", "ios_saf"},
		{"ChromeAndroid", "and_chr"},
		{"OperaMini", "op_mini"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			a, ok := d.Agent(tt.input)
			if !ok {
				t.Fatalf("Agent(%q) not found", tt.input)
			}
			if a.Name != tt.want {
				t.Errorf("Agent(%q).Name = %q, want %q", tt.input, a.Name, tt.want)
			}
		})
	}

	if _, ok := d.Agent("netscape"); ok {
		t.Error("expected unknown agent")
	}
}

func TestAgent_Normalize(t *testing.T) {
	d := mustLoad(t)
	ios, _ := d.Agent("ios_saf")
	safari, _ := d.Agent("safari")

	tests := []struct {
		agent   *Agent
		version string
		want    string
		ok      bool
	}{
		{ios, "10.3", "10.3", true},
		{ios, "10.0", "10.0-10.2", true},
		{ios, "10.2", "10.0-10.2", true},
		{ios, "10.1", "", false},
		{safari, "tp", "TP", true},
		{safari, "5", "", false},
	}
	for _, tt := range tests {
		got, ok := tt.agent.Normalize(tt.version)
		if ok != tt.ok || got != tt.want {
			t.Errorf("%s.Normalize(%q) = %q, %v; want %q, %v", tt.agent.Name, tt.version, got, ok, tt.want, tt.ok)
		}
	}
}

func TestAgent_Versions(t *testing.T) {
	d := mustLoad(t)
	edge, _ := d.Agent("edge")

	got := edge.Versions()
	if got[len(got)-1] != "16" {
		t.Errorf("last version = %q, want unreleased 16", got[len(got)-1])
	}
	if len(got) != len(edge.Released)+len(edge.Unreleased) {
		t.Errorf("len = %d", len(got))
	}
}

func TestGlobal_Keys(t *testing.T) {
	d := mustLoad(t)
	g := d.Global()

	if g["ie 11"] != 3.14 {
		t.Errorf("ie 11 = %v, want 3.14", g["ie 11"])
	}
	if g["op_mini all"] != 3.47 {
		t.Errorf("op_mini all = %v, want 3.47", g["op_mini all"])
	}
}

func TestUsage_ShareFallback(t *testing.T) {
	u := Usage{"ie 11": 3, "op_mini 0": 1.5}

	if got := u.Share("ie 11"); got != 3 {
		t.Errorf("Share(ie 11) = %v", got)
	}
	if got := u.Share("op_mini all"); got != 1.5 {
		t.Errorf("Share(op_mini all) = %v, want fallback 1.5", got)
	}
	if got := u.Share("ie 6"); got != 0 {
		t.Errorf("Share(ie 6) = %v, want 0", got)
	}
	if got := u.Sum([]string{"ie 11", "op_mini all", "ie 6"}); math.Abs(got-4.5) > 1e-9 {
		t.Errorf("Sum = %v, want 4.5", got)
	}
}

func TestRegion(t *testing.T) {
	d := mustLoad(t)

	us, err := d.Region("us")
	if err != nil {
		t.Fatalf("Region(us) failed: %v", err)
	}
	if us["ie 8"] != 0.114 {
		t.Errorf("US ie 8 = %v, want 0.114", us["ie 8"])
	}

	again, err := d.Region("US")
	if err != nil {
		t.Fatalf("Region(US) failed: %v", err)
	}
	again["marker 1"] = 1
	if us["marker 1"] != 1 {
		t.Error("expected region table to be cached")
	}
}

func TestRegion_Unknown(t *testing.T) {
	d := mustLoad(t)

	for _, code := range []string{"XX", "alt-zz", "../agents"} {
		if _, err := d.Region(code); !errors.Is(err, ErrUnknownRegion) {
			t.Errorf("Region(%q) err = %v, want ErrUnknownRegion", code, err)
		}
	}
}

func TestRegions_ListsBundled(t *testing.T) {
	codes := Regions()
	seen := map[string]bool{}
	for _, c := range codes {
		seen[c] = true
	}
	for _, want := range []string{"US", "GB", "DE", "RU", "CN"} {
		if !seen[want] {
			t.Errorf("missing region %s in %v", want, codes)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("{{nope")); err == nil {
		t.Error("expected YAML error")
	}
	if _, err := Parse([]byte("updated: x\n")); err == nil {
		t.Error("expected error for empty agents")
	}
}
