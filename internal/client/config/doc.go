// Package config provides configuration for the nuudash CLI.
//
// Values are layered: defaults, then an optional JSON file (-c/-config),
// then NUUDASH_* environment variables, then command-line flags.
package config
