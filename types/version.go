package types

// Name is the program name printed by --version and used as the prefix of
// error messages.
const Name = "browserslist"

// Version is the canonical project version.
// The CLI, the bundled dataset snapshot and the config formats are
// versioned together.
const Version = "2.4.0"

// Description is the one-line summary shown at the top of --help.
const Description = "Get browsers list from queries or config file"
