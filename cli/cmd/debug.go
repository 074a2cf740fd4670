package cmd

import (
	"github.com/pithecene-io/browserslist/cli/args"
	"github.com/pithecene-io/browserslist/cli/resolve"
	"github.com/pithecene-io/browserslist/log"
	"github.com/pithecene-io/browserslist/metrics"
)

// logInvocation records how the invocation was resolved. The logger is
// quiet unless BROWSERSLIST_DEBUG is set.
func logInvocation(logger *log.Logger, opts *args.Options, res *resolve.Resolution, m *metrics.Collector) {
	fields := m.Snapshot().Fields()
	fields["format"] = string(opts.Format)
	fields["coverage"] = opts.Coverage
	if res != nil {
		fields["source"] = string(res.Source)
		fields["queries"] = res.Queries
		if res.ConfigPath != "" {
			fields["config"] = res.ConfigPath
			fields["env"] = res.Env
		}
	}
	logger.Debug("invocation resolved", fields)
}
