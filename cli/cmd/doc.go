// Package cmd implements the uidsl subcommands.
package cmd

const (
	// CacheIdentifier is the kong variable identifier containing the path
	// to the cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// to the configuration file.
	ConfigIdentifier = "config"
)
