// Package config provides configuration loading, merging, and validation
// facilities for the secrets manager client.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables (KSM_ prefix)
//  2. Command-line flags
//  3. JSON config file
//
// This is the runtime configuration of the SDK and its tools (which storage
// to use, timeouts, retries). The vault identity itself, the
// [models.Configuration], lives in the configuration store.
//
// The main entry point is [GetClientConfig].
package config
