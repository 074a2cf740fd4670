package config

import (
	"errors"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"

	"github.com/pithecene-io/browserslist/log"
	"github.com/pithecene-io/browserslist/metrics"
	"github.com/pithecene-io/browserslist/types"
)

const (
	cacheSize     = 128
	maxConfigSize = 1 << 20
)

// errTooLarge is reported for config files above maxConfigSize.
var errTooLarge = errors.New("config file too large")

// Resolver reads configs for one invocation. Each path is read and parsed
// at most once; each directory is inspected at most once.
type Resolver struct {
	fs      afero.Fs
	env     types.Environment
	logger  *log.Logger
	sugar   *log.SugaredLogger
	metrics *metrics.Collector

	files *lru.Cache[string, *File]
	dirs  *lru.Cache[string, string]
}

// NewResolver creates a Resolver reading through fs.
func NewResolver(fs afero.Fs, env types.Environment, logger *log.Logger, m *metrics.Collector) (*Resolver, error) {
	if logger == nil {
		logger = log.Nop()
	}
	files, err := lru.New[string, *File](cacheSize)
	if err != nil {
		return nil, err
	}
	dirs, err := lru.New[string, string](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Resolver{
		fs:      fs,
		env:     env,
		logger:  logger,
		sugar:   logger.Sugar().With("component", "config"),
		metrics: m,
		files:   files,
		dirs:    dirs,
	}, nil
}

// Load reads the config at path. Relative paths are resolved against the
// environment's working directory; messages use path as given.
func (r *Resolver) Load(path string) (*File, error) {
	abs := r.abs(path)
	if f, ok := r.files.Get(abs); ok {
		r.metrics.IncConfigCacheHit()
		return f, nil
	}

	data, err := r.read(abs)
	if err != nil {
		r.logger.Debug("config read failed", map[string]any{"path": abs, "error": err.Error()})
		return nil, types.Wrap(types.ErrConfigNotFound, err, "Can't read %s config", path)
	}

	f, err := Parse(abs, []byte(ExpandEnv(string(data), r.env.Lookup)))
	if err != nil {
		return nil, err
	}
	r.files.Add(abs, f)
	r.logger.Debug("config loaded", map[string]any{"path": abs, "sections": f.Sections()})
	return f, nil
}

// Find looks for a config in dir and each of its parents. It returns nil
// when no directory up to the root holds one.
func (r *Resolver) Find(dir string) (*File, error) {
	dir = r.abs(dir)
	for {
		path, err := r.lookupDir(dir)
		if err != nil {
			return nil, err
		}
		if path != "" {
			r.sugar.Infof("using config %s", path)
			return r.Load(path)
		}
		r.sugar.Debugf("no config in %s", dir)

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// lookupDir returns the config path in dir, or "" when there is none.
// Two config sources in the same directory are an error.
func (r *Resolver) lookupDir(dir string) (string, error) {
	if path, ok := r.dirs.Get(dir); ok {
		r.metrics.IncConfigCacheHit()
		return path, nil
	}
	r.metrics.IncConfigLookup()

	var found []string
	for _, name := range Candidates {
		path := filepath.Join(dir, name)
		ok, err := r.isConfig(path)
		if err != nil {
			return "", err
		}
		if ok {
			found = append(found, name)
		}
	}

	if len(found) > 1 {
		return "", types.Errorf(types.ErrInvalidConfig, "%s contains both %s and %s", dir, found[0], found[1])
	}

	path := ""
	if len(found) == 1 {
		path = filepath.Join(dir, found[0])
	}
	r.dirs.Add(dir, path)
	return path, nil
}

// isConfig reports whether path is a config source. A package.json counts
// only when it has a browserslist key; it is parsed and cached here so
// Load does not read it again.
func (r *Resolver) isConfig(path string) (bool, error) {
	info, err := r.fs.Stat(path)
	if err != nil || info.IsDir() {
		return false, nil
	}
	if filepath.Base(path) != PackageName {
		return true, nil
	}

	data, err := r.read(path)
	if err != nil {
		return false, nil
	}
	f, ok, err := ParsePackage(path, []byte(ExpandEnv(string(data), r.env.Lookup)))
	if err != nil {
		// An unrelated package.json that fails to parse is not a config.
		r.logger.Warn("package.json ignored", map[string]any{"path": path, "error": err.Error()})
		return false, nil
	}
	if !ok {
		return false, nil
	}
	r.files.Add(path, f)
	return true, nil
}

func (r *Resolver) read(path string) ([]byte, error) {
	info, err := r.fs.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &types.Error{Kind: types.ErrConfigNotFound, Message: path + " is a directory"}
	}
	if info.Size() > maxConfigSize {
		return nil, errTooLarge
	}
	r.metrics.IncConfigRead()
	return afero.ReadFile(r.fs, path)
}

func (r *Resolver) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(r.env.Cwd, path)
}
