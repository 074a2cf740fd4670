package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/browserslist/cli/args"
	"github.com/pithecene-io/browserslist/cli/config"
	"github.com/pithecene-io/browserslist/cli/render"
	"github.com/pithecene-io/browserslist/cli/resolve"
	"github.com/pithecene-io/browserslist/dataset"
	"github.com/pithecene-io/browserslist/log"
	"github.com/pithecene-io/browserslist/metrics"
	"github.com/pithecene-io/browserslist/query"
	"github.com/pithecene-io/browserslist/stats"
	"github.com/pithecene-io/browserslist/types"
)

// EngineFactory builds the query engine for an invocation. usage is the
// custom statistics table, nil when none are available.
type EngineFactory func(usage dataset.Usage, opts *args.Options) (query.Engine, error)

// DefaultEngine builds the built-in engine over the bundled dataset.
func DefaultEngine(usage dataset.Usage, opts *args.Options) (query.Engine, error) {
	data, err := dataset.Load()
	if err != nil {
		return nil, err
	}
	return query.New(data,
		query.WithCustomUsage(usage),
		query.WithIgnoreUnknownVersions(opts.IgnoreUnknownVersions),
	), nil
}

// Invocation is the process state an App runs against. Zero fields fall
// back to the real process: OS filesystem, stdout/stderr, os.Exit.
type Invocation struct {
	Env    types.Environment
	Fs     afero.Fs
	Stdout io.Writer
	Stderr io.Writer
	Logger *log.Logger

	// NewEngine builds the engine; DefaultEngine when nil.
	NewEngine EngineFactory
	// StoreOpener overrides how explicit stats locations are opened.
	StoreOpener stats.StoreOpener
	// Exit terminates the process after an error has been printed.
	Exit func(code int)
}

func (inv *Invocation) withDefaults() {
	if inv.Fs == nil {
		inv.Fs = afero.NewOsFs()
	}
	if inv.Stdout == nil {
		inv.Stdout = os.Stdout
	}
	if inv.Stderr == nil {
		inv.Stderr = os.Stderr
	}
	if inv.Logger == nil {
		inv.Logger = log.NewLoggerWithWriter(inv.Env, inv.Stderr)
	}
	if inv.NewEngine == nil {
		inv.NewEngine = DefaultEngine
	}
	if inv.Exit == nil {
		inv.Exit = os.Exit
	}
}

// application carries per-run state between the action and the exit
// handler.
type application struct {
	inv     Invocation
	noColor bool
}

// NewApp returns the browserslist application.
//
// Flags are parsed by the args package rather than urfave/cli: values
// attach with "=" only, --coverage takes an optional value, and quotes
// around values are stripped. The app therefore skips its own flag parsing
// and built-in help/version handling.
func NewApp(inv Invocation) *cli.App {
	inv.withDefaults()
	a := &application{inv: inv}

	return &cli.App{
		Name:                  types.Name,
		Usage:                 types.Description,
		Version:               types.Version,
		HideHelp:              true,
		HideVersion:           true,
		SkipFlagParsing:       true,
		CustomAppHelpTemplate: helpTemplate,
		Writer:                inv.Stdout,
		ErrWriter:             inv.Stderr,
		ExitErrHandler:        a.exitErrHandler,
		Action:                a.action,
	}
}

func (a *application) action(c *cli.Context) error {
	defer a.inv.Logger.Sync()

	opts, err := args.Parse(c.Args().Slice())
	if err != nil {
		return cli.Exit(err, 1)
	}
	a.noColor = opts.NoColor

	switch {
	case opts.ShowHelp:
		return cli.ShowAppHelp(c)
	case opts.ShowVersion:
		return printVersion(c)
	}

	m := metrics.NewCollector()
	rep, res, err := a.run(c.Context, opts, m)
	logInvocation(a.inv.Logger, opts, res, m)
	if err != nil {
		return cli.Exit(err, 1)
	}

	r := render.NewRendererWithWriter(opts.Format, opts.NoColor, a.inv.Stdout)
	if opts.TUI {
		err = r.RenderTUI(rep, res.Queries)
	} else {
		err = r.Render(rep)
	}
	if err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}

// run resolves queries, loads stats, evaluates and computes coverage.
// Query resolution happens before any stats or coverage work.
func (a *application) run(ctx context.Context, opts *args.Options, m *metrics.Collector) (render.Report, *resolve.Resolution, error) {
	env := a.inv.Env
	logger := a.inv.Logger

	resolver, err := config.NewResolver(a.inv.Fs, env, logger, m)
	if err != nil {
		return render.Report{}, nil, err
	}
	res, err := resolve.Queries(opts, env, resolver)
	if err != nil {
		return render.Report{}, nil, err
	}

	loaderOpts := []stats.Option{stats.WithMetrics(m)}
	if a.inv.StoreOpener != nil {
		loaderOpts = append(loaderOpts, stats.WithStoreOpener(a.inv.StoreOpener))
	}
	usage, err := resolve.LoadStats(ctx, opts, env, a.inv.Fs, stats.NewLoader(env, logger, loaderOpts...))
	if err != nil {
		return render.Report{}, res, err
	}

	engine, err := a.inv.NewEngine(usage, opts)
	if err != nil {
		return render.Report{}, res, err
	}

	browsers, err := engine.Resolve(res.Queries)
	if err != nil {
		return render.Report{}, res, err
	}
	m.AddQueriesResolved(len(res.Queries), len(browsers))

	rep := render.Report{Browsers: browsers}
	if !opts.Coverage {
		return rep, res, nil
	}

	regions := opts.Countries
	if len(regions) == 0 {
		regions = []string{""}
	}
	for _, region := range regions {
		percent, err := engine.Coverage(browsers, region)
		if err != nil {
			return render.Report{}, res, err
		}
		m.IncCoverageComputed()
		rep.Coverage = append(rep.Coverage, render.CoverageLine{Region: region, Percent: percent})
	}
	return rep, res, nil
}

// exitErrHandler prints the error as "browserslist: <message>", adds the
// usage text after usage errors or the bundled region codes after an
// unknown region, and exits with the error's code.
func (a *application) exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	out := a.inv.Stderr
	red := color.New(color.FgRed)
	if a.noColor || !render.IsTerminal(out) {
		red.DisableColor()
	} else {
		red.EnableColor()
	}

	fmt.Fprintln(out, red.Sprintf("%s: %s", types.Name, err.Error()))
	switch {
	case types.IsUsageError(err):
		fmt.Fprintf(out, "\n%s", UsageText)
	case errors.Is(err, types.ErrUnknownRegion):
		fmt.Fprintf(out, "Known regions: %s\n", strings.Join(dataset.Regions(), ", "))
	}

	code := 1
	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code = exitCoder.ExitCode()
	}
	a.inv.Exit(code)
}
