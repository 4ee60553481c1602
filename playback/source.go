package playback

import "errors"

// ErrSourceUnavailable means a media source could not be opened or is not
// open yet.
var ErrSourceUnavailable = errors.New("source unavailable")

// Source yields decoded frames from a media stream. ReadUnit returns io.EOF
// once the stream is exhausted. Units are frame ordinals; Total and Rate
// describe the whole stream. A Source is driven by one playback goroutine at
// a time.
type Source interface {
	ReadUnit() (*Frame, error)
	Seek(unit int) error
	Total() int
	Rate() float64
	Close() error
}

// SourceOpener turns a stream locator into a live Source.
type SourceOpener func(locator string) (Source, error)

// Renderer is the presentation surface the clock draws to. Size may return
// zero dimensions when the surface cannot be measured; frames are then
// presented unscaled.
type Renderer interface {
	Size() (width, height int)
	Present(frame *Frame)
	Timecode(text string)
}
