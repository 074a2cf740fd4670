// Package main provides the browserslist CLI entrypoint.
//
// Usage:
//
//	browserslist [options] [queries]
//
// Exit codes:
//   - 0: success
//   - 1: any error (unknown argument, missing query, bad config or stats)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pithecene-io/browserslist/cli/cmd"
	"github.com/pithecene-io/browserslist/types"
)

func main() {
	os.Exit(run(os.Args, os.Environ(), os.Stdout, os.Stderr))
}

// run executes one invocation and returns the process exit code.
func run(argv, environ []string, stdout, stderr io.Writer) int {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", types.Name, err)
		return 1
	}

	code := 0
	app := cmd.NewApp(cmd.Invocation{
		Env:    types.NewEnvironment(cwd, environ),
		Stdout: stdout,
		Stderr: stderr,
		Exit:   func(c int) { code = c },
	})

	if err := app.Run(argv); err != nil && code == 0 {
		// ExitErrHandler already reported errors it recognized.
		code = 1
	}
	return code
}
