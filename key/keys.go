// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Engine Supervision - these keys govern the lifecycle of the QuickSeed worker process.
const (
	EnginePath           = "engine.path"
	EngineHealthInterval = "engine.health_interval"
	EngineHealthAttempts = "engine.health_attempts"
	EngineStopGrace      = "engine.stop_grace"
)

// Media Playback - these keys configure the frame-paced playback loop and entry filtering.
const (
	PlayableExtensions = "playback.extensions"
	FallbackRate       = "playback.fallback_rate"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern the terminal surface.
const (
	CliColored = "cli.colored"
)
