// Package file provides the TOML configuration file adapter.
//
// ConfigStore reads ~/.signin/config.toml (or a file in a custom directory)
// and exposes its tables as dot-notation keys. Watch reloads the store when
// the file changes on disk.
package file
