package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/quickplay-cli/quickplay/events"
	"github.com/quickplay-cli/quickplay/session"
	. "github.com/smartystreets/goconvey/convey"
)

type captureSink struct {
	mu       sync.Mutex
	statuses []string
	percents []float64
	rates    []string
}

func (s *captureSink) Status(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, text)
}

func (s *captureSink) Progress(percent float64, rate string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.percents = append(s.percents, percent)
	s.rates = append(s.rates, rate)
}

func TestSessionEvents(t *testing.T) {
	Convey("sessionEvents", t, func() {
		sink := &captureSink{}
		manager := session.NewManager()

		Convey("files_available should refresh the active session's entries", func(c C) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				c.So(r.URL.Path, ShouldEqual, "/api/torrents/t1/files")
				_ = json.NewEncoder(w).Encode(map[string]any{
					"files": []session.Entry{
						{Name: "movie.mp4", Size: 1 << 30},
						{Name: "notes.txt", Size: 512},
					},
				})
			}))
			defer srv.Close()

			client := session.NewClient(srv.URL, sink)
			active := &session.Session{ID: "t1"}
			manager.Replace(active)

			handler := sessionEvents(context.Background(), client, manager, sink)
			handler(events.Event{Type: events.FilesAvailable})

			entries := active.EntryList()
			So(entries, ShouldHaveLength, 1)
			So(entries[0].Name, ShouldEqual, "movie.mp4")
		})

		Convey("files_available without an active session should be a no-op", func() {
			client := session.NewClient("http://127.0.0.1:1", sink)
			handler := sessionEvents(context.Background(), client, manager, sink)

			So(func() { handler(events.Event{Type: events.FilesAvailable}) }, ShouldNotPanic)
			So(manager.Active().IsAbsent(), ShouldBeTrue)
		})

		Convey("torrent_added should adopt the engine-assigned session", func() {
			client := session.NewClient("http://127.0.0.1:1", sink)
			handler := sessionEvents(context.Background(), client, manager, sink)

			handler(events.Event{Type: events.TorrentAdded, TorrentID: "t9", Name: "Sintel"})

			active := manager.Active().MustGet()
			So(active.ID, ShouldEqual, "t9")
			So(active.Name, ShouldEqual, "Sintel")

			Convey("and keep it once one is active", func() {
				handler(events.Event{Type: events.TorrentAdded, TorrentID: "t10", Name: "Other"})

				So(manager.Active().MustGet().ID, ShouldEqual, "t9")
			})
		})

		Convey("download_progress should pass the percent and a labeled rate", func() {
			client := session.NewClient("http://127.0.0.1:1", sink)
			handler := sessionEvents(context.Background(), client, manager, sink)

			handler(events.Event{Type: events.DownloadProgress, Progress: 12.34, Speed: 456.71})

			So(sink.percents, ShouldHaveLength, 1)
			So(sink.percents[0], ShouldAlmostEqual, 12.34, 0.001)
			So(sink.rates[0], ShouldEqual, "456.7 KB/s")
		})

		Convey("error events should surface the engine's message", func() {
			client := session.NewClient("http://127.0.0.1:1", sink)
			handler := sessionEvents(context.Background(), client, manager, sink)

			handler(events.Event{Type: events.Fault, Message: "tracker unreachable"})

			So(sink.statuses, ShouldContain, "Engine error: tracker unreachable")
		})
	})
}
