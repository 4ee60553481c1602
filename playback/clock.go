package playback

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/quickplay-cli/quickplay/status"
	"github.com/quickplay-cli/quickplay/util"
)

// State is the playback lifecycle phase.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// pausePoll bounds how long the loop sleeps between checks while paused.
const pausePoll = 100 * time.Millisecond

// Clock drives playback of an open Source at the stream's native rate. One
// frame is read, fitted and presented per tick, followed by a progress and
// timecode report. All transport operations are safe for concurrent use;
// at most one playback loop runs at a time.
type Clock struct {
	mu       sync.Mutex
	opener   SourceOpener
	source   Source
	renderer Renderer
	sink     status.Sink
	state    State
	looping  bool
	wake     chan struct{}
	done     chan struct{}
	pending  int
}

// NewClock creates a stopped clock drawing to renderer and reporting to
// sink; a nil sink routes reports to the log layer.
func NewClock(renderer Renderer, sink status.Sink) *Clock {
	if sink == nil {
		sink = status.Log{}
	}
	return &Clock{
		opener:   OpenFFmpeg,
		renderer: renderer,
		sink:     sink,
		pending:  -1,
	}
}

// State returns the current lifecycle phase.
func (c *Clock) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Open attaches the clock to the stream at locator, replacing any previous
// source. On failure the clock keeps its previous source and stays in its
// previous state.
func (c *Clock) Open(locator string) error {
	src, err := c.opener(locator)
	if err != nil {
		return errors.Join(ErrSourceUnavailable, err)
	}

	c.mu.Lock()
	looping := c.looping
	c.mu.Unlock()
	if looping {
		c.Stop()
	}

	c.mu.Lock()
	old := c.source
	c.source = src
	c.state = Stopped
	c.pending = -1
	c.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	c.sink.Status("Stream opened")
	return nil
}

// Play starts or resumes playback. A second Play while already playing is a
// no-op; resuming after Pause reuses the running loop.
func (c *Clock) Play() error {
	c.mu.Lock()
	if c.source == nil {
		c.mu.Unlock()
		return ErrSourceUnavailable
	}
	if c.state == Playing {
		c.mu.Unlock()
		return nil
	}
	c.state = Playing
	if !c.looping {
		c.looping = true
		c.wake = make(chan struct{}, 1)
		c.done = make(chan struct{})
		go c.loop(c.wake, c.done)
	}
	c.mu.Unlock()

	c.nudge()
	c.sink.Status("Playing")
	return nil
}

// Pause suspends playback without releasing the source or the loop.
func (c *Clock) Pause() {
	c.mu.Lock()
	if c.state != Playing {
		c.mu.Unlock()
		return
	}
	c.state = Paused
	c.mu.Unlock()

	c.sink.Status("Paused")
}

// Stop halts playback, waits for the loop to exit and rewinds the source.
// Stopping an already stopped clock with no source is a no-op.
func (c *Clock) Stop() {
	c.mu.Lock()
	if c.source == nil && !c.looping {
		c.mu.Unlock()
		return
	}
	c.state = Stopped
	c.pending = -1
	wasLooping := c.looping
	done := c.done
	src := c.source
	c.mu.Unlock()

	if wasLooping {
		c.nudge()
		<-done
	}
	if src != nil {
		_ = src.Seek(0)
	}
	c.sink.Progress(0, "")
	c.sink.Status("Stopped")
}

// Seek moves the position to fraction of the stream, clamped to [0, 1]. The
// playing flag is untouched; while playing the target is handed to the loop,
// so concurrent seeks resolve last-write-wins.
func (c *Clock) Seek(fraction float64) error {
	c.mu.Lock()
	if c.source == nil {
		c.mu.Unlock()
		return ErrSourceUnavailable
	}
	fraction = util.Clamp(fraction, 0, 1)
	total := c.source.Total()
	unit := int(fraction*float64(total) + 0.5)
	if total > 0 && unit >= total {
		unit = total - 1
	}

	if c.state == Playing && c.looping {
		c.pending = unit
		c.mu.Unlock()
		c.nudge()
		return nil
	}

	src := c.source
	c.mu.Unlock()
	return src.Seek(unit)
}

// Close stops playback and releases the source.
func (c *Clock) Close() error {
	c.Stop()

	c.mu.Lock()
	src := c.source
	c.source = nil
	c.mu.Unlock()

	if src == nil {
		return nil
	}
	return src.Close()
}

// nudge wakes a sleeping loop without blocking when no loop is listening.
func (c *Clock) nudge() {
	c.mu.Lock()
	wake := c.wake
	c.mu.Unlock()
	if wake == nil {
		return
	}
	select {
	case wake <- struct{}{}:
	default:
	}
}

func (c *Clock) loop(wake <-chan struct{}, done chan struct{}) {
	defer close(done)

	for {
		c.mu.Lock()
		if c.state == Stopped || c.source == nil {
			c.looping = false
			c.mu.Unlock()
			return
		}
		if c.state == Paused {
			c.mu.Unlock()
			select {
			case <-wake:
			case <-time.After(pausePoll):
			}
			continue
		}
		src := c.source
		if c.pending >= 0 {
			unit := c.pending
			c.pending = -1
			c.mu.Unlock()
			if err := src.Seek(unit); err != nil {
				c.sink.Status("Seek failed: " + err.Error())
			}
			continue
		}
		c.mu.Unlock()

		frame, err := src.ReadUnit()
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			c.finish("End of stream", src)
			return
		}
		if err != nil {
			c.finish("Playback error: "+err.Error(), src)
			return
		}

		w, h := c.renderer.Size()
		c.renderer.Present(frame.FitTo(w, h))

		total := src.Total()
		rate := src.Rate()
		played := frame.Index + 1
		if total > 0 {
			c.sink.Progress(float64(played)/float64(total)*100, "")
		}
		c.renderer.Timecode(FormatClock(played, total, rate))

		interval := time.Duration(float64(time.Second) / util.Max(rate, 1))
		select {
		case <-wake:
		case <-time.After(interval):
		}
	}
}

// finish ends the loop from inside: the state flips to Stopped before the
// source is rewound so a concurrent Play observes a clean stop.
func (c *Clock) finish(text string, src Source) {
	c.mu.Lock()
	c.state = Stopped
	c.looping = false
	c.mu.Unlock()

	_ = src.Seek(0)
	c.sink.Progress(0, "")
	c.sink.Status(text)
}
