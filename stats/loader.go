package stats

import (
	"context"
	"fmt"

	"github.com/justapithecus/lode/lode"

	"github.com/pithecene-io/browserslist/dataset"
	"github.com/pithecene-io/browserslist/iox"
	"github.com/pithecene-io/browserslist/log"
	"github.com/pithecene-io/browserslist/metrics"
	"github.com/pithecene-io/browserslist/types"
)

// Environment variables read by the S3 backend.
const (
	S3RegionEnvVar   = "BROWSERSLIST_S3_REGION"
	S3EndpointEnvVar = "BROWSERSLIST_S3_ENDPOINT"
)

// maxDocumentSize bounds a stats document.
const maxDocumentSize = 32 << 20

// StoreOpener returns a store factory for a parsed location.
type StoreOpener func(ctx context.Context, loc Location) (lode.StoreFactory, error)

// Loader loads custom usage statistics from local files or S3.
type Loader struct {
	env     types.Environment
	logger  *log.Logger
	metrics *metrics.Collector
	open    StoreOpener
	openS3  func(context.Context, S3Target) (lode.StoreFactory, error)
}

// Option configures a Loader.
type Option func(*Loader)

// WithStoreOpener replaces the store selection (for testing).
func WithStoreOpener(open StoreOpener) Option {
	return func(l *Loader) { l.open = open }
}

// WithS3Opener replaces how s3 locations are opened by the default store
// selection (for testing).
func WithS3Opener(open func(context.Context, S3Target) (lode.StoreFactory, error)) Option {
	return func(l *Loader) { l.openS3 = open }
}

// WithMetrics records loads on the given collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(l *Loader) { l.metrics = c }
}

// NewLoader creates a Loader for the given environment.
func NewLoader(env types.Environment, logger *log.Logger, opts ...Option) *Loader {
	if logger == nil {
		logger = log.Nop()
	}
	l := &Loader{env: env, logger: logger, openS3: OpenS3}
	l.open = l.defaultOpener
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// defaultOpener maps fs locations to a Lode FS store and s3 locations to a
// Lode S3 store.
func (l *Loader) defaultOpener(ctx context.Context, loc Location) (lode.StoreFactory, error) {
	switch loc.Backend {
	case "fs":
		return lode.NewFSFactory(loc.Root), nil
	case "s3":
		return l.openS3(ctx, S3TargetFor(loc, l.env))
	default:
		return nil, fmt.Errorf("unknown stats backend: %s", loc.Backend)
	}
}

// Load reads and decodes the stats document at raw.
// All failures are reported as types.ErrStatsUnavailable with the storage
// classification kept in the chain.
func (l *Loader) Load(ctx context.Context, raw string) (dataset.Usage, error) {
	usage, err := l.load(ctx, raw)
	if err != nil {
		l.metrics.IncStatsError()
		l.logger.Debug("stats load failed", map[string]any{"location": raw, "error": err.Error()})
		return nil, err
	}
	l.metrics.IncStatsLoad()
	l.logger.Info("stats loaded", map[string]any{"location": raw, "entries": len(usage)})
	return usage, nil
}

func (l *Loader) load(ctx context.Context, raw string) (dataset.Usage, error) {
	loc, err := ParseLocation(raw, l.env.Cwd)
	if err != nil {
		return nil, types.Wrap(types.ErrStatsUnavailable, err, "Can't read %s stats: %v", raw, err)
	}

	factory, err := l.open(ctx, loc)
	if err != nil {
		return nil, types.Wrap(types.ErrStatsUnavailable, WrapOpenError(err, raw), "Can't read %s stats", raw)
	}
	store, err := factory()
	if err != nil {
		return nil, types.Wrap(types.ErrStatsUnavailable, WrapOpenError(err, raw), "Can't read %s stats", raw)
	}

	rc, err := store.Get(ctx, loc.Key)
	if err != nil {
		return nil, types.Wrap(types.ErrStatsUnavailable, WrapReadError(err, raw), "Can't read %s stats", raw)
	}
	data, err := iox.ReadAllClose(rc, maxDocumentSize)
	if err != nil {
		return nil, types.Wrap(types.ErrStatsUnavailable, WrapReadError(err, raw), "Can't read %s stats", raw)
	}

	return DecodeLocated(raw, loc.Key, data)
}

// DecodeLocated decodes data and reports failures against raw.
func DecodeLocated(raw, name string, data []byte) (dataset.Usage, error) {
	usage, err := Decode(name, data)
	if err != nil {
		return nil, types.Wrap(types.ErrStatsUnavailable, err, "Invalid stats in %s: %v", raw, err)
	}
	return usage, nil
}
