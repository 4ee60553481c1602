// Package constant defines application-wide immutable metadata.
package constant

// Quickplay is the canonical application identifier used for config paths,
// environment variable prefixes and user-facing branding.
const Quickplay = "quickplay"

// Engine is the default executable name of the supervised QuickSeed worker.
const Engine = "quickseed"

// Version is the semantic version of the current build.
const Version = "0.1.0"
