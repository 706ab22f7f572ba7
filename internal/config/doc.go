// Package config provides configuration loading, merging, and validation
// facilities for the sync server and its command-line client.
//
// Server configuration is assembled from multiple sources. The first source
// that sets a field wins:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file (path from CONFIG, -c or -config)
//  4. Built-in defaults
//
// The merged config is validated before it is returned: a token sign key,
// at least one listen address, a supported storage driver and a parseable
// purge schedule are required.
//
// The main entry points are [GetStructuredConfig] for server configuration
// and [GetClientConfig] for the client.
package config
