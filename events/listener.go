package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/quickplay-cli/quickplay/log"
)

// dispatchBuffer bounds the hand-off queue between the read loop and the
// handler; the read loop blocks rather than reorder or drop events.
const dispatchBuffer = 64

// Listener holds the websocket connection to the engine. It is opened only
// once the supervisor reports the engine healthy. On transport error or close
// the read loop exits; no reconnect is attempted by this layer.
type Listener struct {
	url     string
	handler Handler

	mu        sync.Mutex
	conn      *websocket.Conn
	queue     chan Event
	done      chan struct{} // closed when dispatch has drained
	listening bool
}

// NewListener creates a listener for the engine at baseURL (http form);
// the handler receives every well-formed event in arrival order.
func NewListener(baseURL string, handler Handler) *Listener {
	return &Listener{
		url:     wsURL(baseURL),
		handler: handler,
	}
}

// wsURL rewrites the engine's HTTP base address to its websocket endpoint.
func wsURL(baseURL string) string {
	url := strings.TrimSuffix(baseURL, "/")
	url = strings.Replace(url, "https://", "wss://", 1)
	url = strings.Replace(url, "http://", "ws://", 1)
	return url + "/ws"
}

// Start dials the event endpoint and begins the receive and dispatch loops.
// Calling Start on a listening listener is a no-op.
func (l *Listener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.listening {
		return nil
	}

	conn, _, err := websocket.DefaultDialer.Dial(l.url, nil)
	if err != nil {
		return fmt.Errorf("event channel connect: %w", err)
	}

	l.conn = conn
	l.queue = make(chan Event, dispatchBuffer)
	l.done = make(chan struct{})
	l.listening = true

	go l.dispatchLoop(l.queue, l.done)
	go l.readLoop(conn, l.queue)

	log.Infof("event channel connected to %s", l.url)
	return nil
}

// Stop closes the connection. The read loop exits on the closed socket, the
// dispatch loop drains what was already received, then Done is closed.
// Stop is idempotent.
func (l *Listener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.listening {
		return
	}

	_ = l.conn.Close()
	l.listening = false
}

// Done returns a channel closed once the dispatch loop has delivered its last
// event, letting the caller observe a dropped connection.
func (l *Listener) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.done
}

// readLoop decodes each inbound message into exactly one Event and hands it
// to the dispatch queue. Malformed messages are logged and dropped; they
// never terminate the loop.
func (l *Listener) readLoop(conn *websocket.Conn, queue chan<- Event) {
	defer close(queue)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Infof("event channel closed: %v", err)
			l.Stop()
			return
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			log.Warnf("dropping malformed event: %v", err)
			continue
		}
		if ev.Type == "" {
			log.Warnf("dropping event without type: %s", data)
			continue
		}

		queue <- ev
	}
}

// dispatchLoop invokes the handler for each queued event, preserving receive
// order. A single dispatcher guarantees the handler never runs concurrently
// with itself.
func (l *Listener) dispatchLoop(queue <-chan Event, done chan<- struct{}) {
	defer close(done)

	for ev := range queue {
		l.handler(ev)
	}
}
