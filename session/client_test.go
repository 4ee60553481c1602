package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quickplay-cli/quickplay/filesystem"
	"github.com/quickplay-cli/quickplay/status"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFilterPlayable(t *testing.T) {
	Convey("FilterPlayable", t, func() {
		entries := []Entry{
			{Name: "a.mp4", Size: 100},
			{Name: "b.txt", Size: 10},
			{Name: "c.MKV", Size: 200},
		}

		filtered := FilterPlayable(entries)

		Convey("Should keep playable entries, order preserved", func() {
			So(filtered, ShouldHaveLength, 2)
			So(filtered[0].Name, ShouldEqual, "a.mp4")
			So(filtered[1].Name, ShouldEqual, "c.MKV")
		})
	})
}

func TestAdd(t *testing.T) {
	Convey("Client.Add", t, func() {
		Convey("With a magnet locator", func(cv C) {
			var gotBody map[string]string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				cv.So(r.URL.Path, ShouldEqual, "/api/torrents")
				cv.So(json.NewDecoder(r.Body).Decode(&gotBody), ShouldBeNil)
				_ = json.NewEncoder(w).Encode(map[string]string{"torrent_id": "t1", "name": "Sintel"})
			}))
			defer srv.Close()

			c := NewClient(srv.URL, status.Discard{})
			s, err := c.Add(context.Background(), "magnet:?xt=urn:btih:deadbeef")

			So(err, ShouldBeNil)
			So(s.ID, ShouldEqual, "t1")
			So(s.Name, ShouldEqual, "Sintel")
			So(gotBody["magnet_link"], ShouldEqual, "magnet:?xt=urn:btih:deadbeef")
		})

		Convey("With a torrent descriptor file", func(cv C) {
			filesystem.SetMemMapFs()
			defer filesystem.SetOsFs()
			So(filesystem.API().WriteFile("/tmp/show.torrent", []byte("d8:announce0:e"), 0o644), ShouldBeNil)

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				cv.So(r.URL.Path, ShouldEqual, "/api/torrents/upload")
				file, header, err := r.FormFile("torrent_file")
				cv.So(err, ShouldBeNil)
				defer file.Close()
				cv.So(header.Filename, ShouldEqual, "show.torrent")
				_ = json.NewEncoder(w).Encode(map[string]string{"id": "t2"})
			}))
			defer srv.Close()

			c := NewClient(srv.URL, status.Discard{})
			s, err := c.Add(context.Background(), "/tmp/show.torrent")

			So(err, ShouldBeNil)
			So(s.ID, ShouldEqual, "t2")
		})

		Convey("With an engine-side failure", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "invalid magnet link", http.StatusBadRequest)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, status.Discard{})
			s, err := c.Add(context.Background(), "magnet:?xt=broken")

			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid magnet link")
			So(s, ShouldBeNil)
		})
	})
}

func TestFiles(t *testing.T) {
	Convey("Client.Files", t, func() {
		Convey("Should publish the filtered list wholesale", func(cv C) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				cv.So(r.URL.Path, ShouldEqual, "/api/torrents/t1/files")
				_ = json.NewEncoder(w).Encode(map[string]any{
					"files": []Entry{
						{Name: "movie.mp4", Size: 1 << 30},
						{Name: "readme.txt", Size: 512},
						{Name: "extras.mkv", Size: 1 << 20},
					},
				})
			}))
			defer srv.Close()

			c := NewClient(srv.URL, status.Discard{})
			s := &Session{ID: "t1"}

			So(c.Files(context.Background(), s), ShouldBeNil)

			entries := s.EntryList()
			So(entries, ShouldHaveLength, 2)
			So(entries[0].Name, ShouldEqual, "movie.mp4")
			So(entries[1].Name, ShouldEqual, "extras.mkv")
		})

		Convey("A failed refresh should keep the previous entries", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "gone", http.StatusInternalServerError)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, status.Discard{})
			s := &Session{ID: "t1"}
			s.SetEntries([]Entry{{Name: "movie.mp4"}})

			So(c.Files(context.Background(), s), ShouldNotBeNil)
			So(s.EntryList(), ShouldHaveLength, 1)
		})
	})
}

func TestNewClient(t *testing.T) {
	Convey("NewClient", t, func() {
		Convey("Should fall back to the log sink when given none", func() {
			c := NewClient("http://127.0.0.1:9000", nil)

			So(c.sink, ShouldHaveSameTypeAs, status.Log{})
		})
	})
}

func TestStreamURL(t *testing.T) {
	Convey("Client.StreamURL", t, func() {
		c := NewClient("http://127.0.0.1:9000", status.Discard{})
		s := &Session{ID: "t1"}

		url := c.StreamURL(s, Entry{Name: "Big Buck Bunny.mp4"})
		So(url, ShouldEqual, "http://127.0.0.1:9000/api/stream/t1/Big%20Buck%20Bunny.mp4")
	})
}

func TestManager(t *testing.T) {
	Convey("Manager", t, func() {
		m := NewManager()

		Convey("Should start with no active session", func() {
			So(m.Active().IsAbsent(), ShouldBeTrue)
		})

		Convey("Replace should install the new session", func() {
			first := &Session{ID: "t1"}
			second := &Session{ID: "t2"}

			m.Replace(first)
			So(m.Active().MustGet().ID, ShouldEqual, "t1")

			m.Replace(second)
			So(m.Active().MustGet().ID, ShouldEqual, "t2")
		})
	})
}
