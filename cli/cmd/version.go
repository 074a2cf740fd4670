package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// printVersion writes "<name> <version>" on its own line.
func printVersion(c *cli.Context) error {
	_, err := fmt.Fprintf(c.App.Writer, "%s %s\n", c.App.Name, c.App.Version)
	return err
}
