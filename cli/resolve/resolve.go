// Package resolve decides where an invocation's queries and custom usage
// statistics come from.
//
// Queries come from positional arguments when any are given, otherwise
// from a config: --config, then BROWSERSLIST_CONFIG, then the nearest
// config above the working directory. Stats come from --stats, then
// BROWSERSLIST_STATS, then the nearest browserslist-stats.json.
package resolve

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/pithecene-io/browserslist/cli/args"
	"github.com/pithecene-io/browserslist/cli/config"
	"github.com/pithecene-io/browserslist/dataset"
	"github.com/pithecene-io/browserslist/stats"
	"github.com/pithecene-io/browserslist/types"
)

// StatsEnvVar names a stats location used when --stats is absent.
const StatsEnvVar = "BROWSERSLIST_STATS"

// StatsFileName is the stats file discovered next to a project.
const StatsFileName = "browserslist-stats.json"

// noQueryMessage is reported when neither queries nor a config are found.
const noQueryMessage = "Browserslist config was not found. Define queries or config path."

// Source names where the queries came from.
type Source string

// Query sources.
const (
	SourceArguments Source = "arguments"
	SourceConfig    Source = "config"
)

// Resolution is the outcome of query resolution.
type Resolution struct {
	Queries []string
	Source  Source
	// ConfigPath and Env are set when Source is SourceConfig.
	ConfigPath string
	Env        string
}

// Queries picks the queries for opts. The config is consulted only when
// no positional queries were given.
func Queries(opts *args.Options, env types.Environment, r *config.Resolver) (*Resolution, error) {
	if len(opts.Queries) > 0 {
		return &Resolution{Queries: opts.Queries, Source: SourceArguments}, nil
	}

	f, err := loadConfig(opts, env, r)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, types.Errorf(types.ErrNoQueryDefined, noQueryMessage)
	}

	name := config.EnvName(opts.Env, env)
	queries := f.Pick(name)
	if len(queries) == 0 {
		return nil, types.Errorf(types.ErrNoQueryDefined, noQueryMessage)
	}
	return &Resolution{Queries: queries, Source: SourceConfig, ConfigPath: f.Path, Env: name}, nil
}

func loadConfig(opts *args.Options, env types.Environment, r *config.Resolver) (*config.File, error) {
	if opts.ConfigPath != "" {
		return r.Load(opts.ConfigPath)
	}
	if path := env.Get(config.ConfigEnvVar); path != "" {
		return r.Load(path)
	}
	return r.Find(env.Cwd)
}

// StatsLocation returns the stats location for opts and whether it was
// discovered on disk rather than named explicitly. An empty location means
// no stats are available.
func StatsLocation(opts *args.Options, env types.Environment, afs afero.Fs) (string, bool, error) {
	if opts.StatsPath != "" {
		return opts.StatsPath, false, nil
	}
	if raw := env.Get(StatsEnvVar); raw != "" {
		return raw, false, nil
	}

	dir := env.Cwd
	for {
		path := filepath.Join(dir, StatsFileName)
		info, err := afs.Stat(path)
		switch {
		case err == nil && !info.IsDir():
			return path, true, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", false, err
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// LoadStats loads the custom usage statistics for opts, or returns nil when
// none are configured. Explicit locations go through loader; a discovered
// file is read from afs.
func LoadStats(ctx context.Context, opts *args.Options, env types.Environment, afs afero.Fs, loader *stats.Loader) (dataset.Usage, error) {
	raw, discovered, err := StatsLocation(opts, env, afs)
	if err != nil {
		return nil, types.Wrap(types.ErrStatsUnavailable, err, "Can't read stats: %v", err)
	}
	if raw == "" {
		return nil, nil
	}
	if !discovered {
		return loader.Load(ctx, raw)
	}

	data, err := afero.ReadFile(afs, raw)
	if err != nil {
		return nil, types.Wrap(types.ErrStatsUnavailable, stats.WrapReadError(err, raw), "Can't read %s stats", raw)
	}
	return stats.DecodeLocated(raw, raw, data)
}
