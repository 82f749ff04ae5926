// Package config loads the client configuration.
//
// Sources are consulted in the following priority order; a field set by an
// earlier source is never overridden by a later one:
//  1. Command-line flags the user set explicitly
//  2. Environment variables (SUPABASE_*, then VITE_SUPABASE_*, then the rest)
//  3. JSON config file named by --config or CONFIG
//  4. Built-in defaults
//
// [GetClientConfig] returns the validated, flattened [ClientConfig].
package config
