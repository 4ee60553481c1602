// Package status defines the contract through which the supervision, session
// and playback layers report human-readable state to the presentation layer.
package status

import "github.com/quickplay-cli/quickplay/log"

// Sink receives advisory status text and progress reports.
//
// Status messages carry no history: each call may overwrite the previous one.
// Progress reports can arrive at high frequency (once per playback iteration),
// so implementations must not block the calling goroutine; any expensive
// rendering has to be dispatched asynchronously by the implementer.
type Sink interface {
	Status(text string)
	Progress(percent float64, rate string)
}

// Log is a Sink that forwards every report to the logging layer. It is the
// fallback installed by constructors that are handed a nil sink.
type Log struct{}

func (Log) Status(text string) {
	log.Info(text)
}

func (Log) Progress(percent float64, rate string) {
	log.Tracef("progress %.1f%% %s", percent, rate)
}

// Discard is a Sink that drops all reports.
type Discard struct{}

func (Discard) Status(string)            {}
func (Discard) Progress(float64, string) {}
