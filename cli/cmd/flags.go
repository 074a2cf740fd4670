// Package cmd provides the browserslist CLI application.
package cmd

// UsageText lists the invocation forms. It is printed by --help and after
// usage errors.
const UsageText = `Usage:
  browserslist "QUERIES"
  browserslist --coverage "QUERIES"
  browserslist --coverage=US,RU "QUERIES"
  browserslist --config="path/to/browserslist/file"
  browserslist --env="environment name defined in config"
  browserslist --stats="path/to/browserslist/stats/file"
`

// optionsText documents the recognized flags. Values attach with "=";
// columns are aligned by the help printer's tabwriter.
const optionsText = `Options:
  -h, --help	Show this help
  -v, --version	Print browserslist version
  -b, --config=PATH	Config file with queries
  -e, --env=NAME	Config section to use (default: $BROWSERSLIST_ENV, $NODE_ENV, development)
  -s, --stats=PATH	Custom usage statistics file (local path or s3://bucket/key)
  -c, --coverage[=CC,...]	Print usage coverage, globally or in the given countries
  --json	Print the result as JSON
  --format=FORMAT	Output format: lines, json, yaml, table
  --tui	Show the result in an interactive view
  --no-color	Disable colored errors and tables
  --ignore-unknown-versions	Skip direct queries for unknown versions
`

// helpTemplate is the app help template. Only app fields are templated;
// the rest is fixed text.
const helpTemplate = "{{.Name}} - {{.Usage}}\n\n" + UsageText + "\n" + optionsText
