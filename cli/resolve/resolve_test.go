package resolve

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/justapithecus/lode/lode"
	"github.com/spf13/afero"

	"github.com/pithecene-io/browserslist/cli/args"
	"github.com/pithecene-io/browserslist/cli/config"
	"github.com/pithecene-io/browserslist/stats"
	"github.com/pithecene-io/browserslist/types"
)

const envConfig = "ie 11\nie 10\n\n[production]\nie 9\nopera 41\n"

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newResolver(t *testing.T, fs afero.Fs, env types.Environment) *config.Resolver {
	t.Helper()
	r, err := config.NewResolver(fs, env, nil, nil)
	if err != nil {
		t.Fatalf("NewResolver failed: %v", err)
	}
	return r
}

func TestQueries(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/project/browserslist", "last 1 version")
	writeFile(t, fs, "/configs/env-config", envConfig)

	tests := []struct {
		name   string
		opts   args.Options
		vars   map[string]string
		want   []string
		source Source
		env    string
	}{
		{
			name:   "positional wins over config",
			opts:   args.Options{Queries: []string{"ie 8"}, ConfigPath: "/configs/env-config"},
			want:   []string{"ie 8"},
			source: SourceArguments,
		},
		{
			name:   "explicit config",
			opts:   args.Options{ConfigPath: "/configs/env-config"},
			want:   []string{"ie 11", "ie 10"},
			source: SourceConfig,
			env:    config.DefaultEnv,
		},
		{
			name:   "explicit config with env flag",
			opts:   args.Options{ConfigPath: "/configs/env-config", Env: "production"},
			want:   []string{"ie 9", "opera 41"},
			source: SourceConfig,
			env:    "production",
		},
		{
			name:   "config from environment",
			vars:   map[string]string{config.ConfigEnvVar: "/configs/env-config", config.NodeEnvVar: "production"},
			want:   []string{"ie 9", "opera 41"},
			source: SourceConfig,
			env:    "production",
		},
		{
			name:   "discovered config",
			want:   []string{"last 1 version"},
			source: SourceConfig,
			env:    config.DefaultEnv,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := types.Environment{Cwd: "/project/src", Vars: tt.vars}
			res, err := Queries(&tt.opts, env, newResolver(t, fs, env))
			if err != nil {
				t.Fatalf("Queries failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, res.Queries); diff != "" {
				t.Errorf("queries mismatch (-want +got):\n%s", diff)
			}
			if res.Source != tt.source || res.Env != tt.env {
				t.Errorf("source = %q env = %q, want %q %q", res.Source, res.Env, tt.source, tt.env)
			}
		})
	}
}

func TestQueries_NoQuery(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/empty/browserslist", "# nothing yet\n")
	writeFile(t, fs, "/nothing/.keep", "")

	for _, cwd := range []string{"/nothing", "/empty"} {
		env := types.Environment{Cwd: cwd}
		_, err := Queries(&args.Options{}, env, newResolver(t, fs, env))
		if !errors.Is(err, types.ErrNoQueryDefined) {
			t.Fatalf("cwd %s: err = %v, want ErrNoQueryDefined", cwd, err)
		}
		if !types.IsUsageError(err) {
			t.Errorf("cwd %s: expected usage error", cwd)
		}
		if err.Error() != "Browserslist config was not found. Define queries or config path." {
			t.Errorf("message = %q", err.Error())
		}
	}
}

func TestQueries_MissingConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	env := types.Environment{Cwd: "/project"}

	_, err := Queries(&args.Options{ConfigPath: "./unknown_path"}, env, newResolver(t, fs, env))
	if !errors.Is(err, types.ErrConfigNotFound) {
		t.Fatalf("err = %v, want ErrConfigNotFound", err)
	}
	if err.Error() != "Can't read ./unknown_path config" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestStatsLocation(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/project/browserslist-stats.json", "{}")
	writeFile(t, fs, "/project/src/app/.keep", "")

	tests := []struct {
		name       string
		opts       args.Options
		vars       map[string]string
		cwd        string
		want       string
		discovered bool
	}{
		{"flag", args.Options{StatsPath: "s3://b/stats.json"}, map[string]string{StatsEnvVar: "other.json"}, "/project", "s3://b/stats.json", false},
		{"environment", args.Options{}, map[string]string{StatsEnvVar: "other.json"}, "/project", "other.json", false},
		{"discovered upward", args.Options{}, nil, "/project/src/app", "/project/browserslist-stats.json", true},
		{"none", args.Options{}, nil, "/elsewhere", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := types.Environment{Cwd: tt.cwd, Vars: tt.vars}
			got, discovered, err := StatsLocation(&tt.opts, env, fs)
			if err != nil {
				t.Fatalf("StatsLocation failed: %v", err)
			}
			if got != tt.want || discovered != tt.discovered {
				t.Errorf("StatsLocation = %q, %v; want %q, %v", got, discovered, tt.want, tt.discovered)
			}
		})
	}
}

func TestLoadStats_Discovered(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/project/browserslist-stats.json", `{"ie": {"11": 17, "10": 10.1}}`)
	env := types.Environment{Cwd: "/project"}

	usage, err := LoadStats(context.Background(), &args.Options{}, env, fs, stats.NewLoader(env, nil))
	if err != nil {
		t.Fatalf("LoadStats failed: %v", err)
	}
	if usage["ie 11"] != 17 {
		t.Errorf("ie 11 = %v, want 17", usage["ie 11"])
	}
}

func TestLoadStats_DiscoveredInvalid(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/project/browserslist-stats.json", `{"ie": 17}`)
	env := types.Environment{Cwd: "/project"}

	_, err := LoadStats(context.Background(), &args.Options{}, env, fs, stats.NewLoader(env, nil))
	if !errors.Is(err, types.ErrStatsUnavailable) {
		t.Fatalf("err = %v, want ErrStatsUnavailable", err)
	}
}

func TestLoadStats_None(t *testing.T) {
	env := types.Environment{Cwd: "/project"}

	usage, err := LoadStats(context.Background(), &args.Options{}, env, afero.NewMemMapFs(), stats.NewLoader(env, nil))
	if err != nil || usage != nil {
		t.Errorf("LoadStats = %v, %v; want nil, nil", usage, err)
	}
}

func TestLoadStats_ExplicitUsesLoader(t *testing.T) {
	ctx := context.Background()
	store, err := lode.NewMemoryFactory()()
	if err != nil {
		t.Fatalf("memory store: %v", err)
	}
	if err := store.Put(ctx, "stats.yaml", strings.NewReader("ie:\n  \"11\": 40\n")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	loader := stats.NewLoader(types.Environment{Cwd: "/project"}, nil,
		stats.WithStoreOpener(func(context.Context, stats.Location) (lode.StoreFactory, error) {
			return func() (lode.Store, error) { return store, nil }, nil
		}))

	env := types.Environment{Cwd: "/project"}
	usage, err := LoadStats(ctx, &args.Options{StatsPath: "stats.yaml"}, env, afero.NewMemMapFs(), loader)
	if err != nil {
		t.Fatalf("LoadStats failed: %v", err)
	}
	if usage["ie 11"] != 40 {
		t.Errorf("ie 11 = %v, want 40", usage["ie 11"])
	}
}
