// Package events maintains the long-lived event connection to the engine and
// delivers typed events to a registered handler in strict receive order.
package events

// Type discriminates the payload of an engine event.
type Type string

// Event types emitted by the engine over its /ws endpoint.
const (
	DownloadProgress Type = "download_progress"
	TorrentAdded     Type = "torrent_added"
	FilesAvailable   Type = "files_available"
	Fault            Type = "error"
)

// Event is one decoded engine message. Events are immutable once decoded and
// are consumed exactly once by the registered handler.
type Event struct {
	Type Type `json:"type"`

	// download_progress
	Progress float64 `json:"progress,omitempty"`
	Speed    float64 `json:"speed,omitempty"`

	// torrent_added
	TorrentID string `json:"torrent_id,omitempty"`
	Name      string `json:"name,omitempty"`

	// error
	Message string `json:"message,omitempty"`
}

// Handler consumes engine events. It runs on the listener's dispatch
// goroutine, never on the socket read loop, so implementations may hand work
// to a presentation context without racing the transport.
type Handler func(Event)
