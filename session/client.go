package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/quickplay-cli/quickplay/filesystem"
	"github.com/quickplay-cli/quickplay/network"
	"github.com/quickplay-cli/quickplay/status"
	"github.com/quickplay-cli/quickplay/util"
	"github.com/samber/lo"
)

// Client wraps the engine's REST surface. Network failures are surfaced via
// the status sink and never mutate state that was not part of the failed
// operation.
type Client struct {
	base string
	http *retryablehttp.Client
	sink status.Sink
}

// NewClient creates a session client for the engine at baseURL. Reports go
// to sink; pass nil to route them to the log layer.
func NewClient(baseURL string, sink status.Sink) *Client {
	if sink == nil {
		sink = status.Log{}
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = nil
	rc.HTTPClient = network.Client

	return &Client{
		base: strings.TrimSuffix(baseURL, "/"),
		http: rc,
		sink: sink,
	}
}

// addResponse tolerates both id spellings the engine has used.
type addResponse struct {
	ID        string `json:"id"`
	TorrentID string `json:"torrent_id"`
	Name      string `json:"name"`
}

// Add submits a content locator to the engine. A locator with the magnet
// scheme is sent as a direct reference; anything else is read from disk and
// uploaded as a torrent descriptor. On success the engine-assigned session is
// returned; on failure the engine's error text is surfaced unchanged.
func (c *Client) Add(ctx context.Context, locator string) (*Session, error) {
	c.sink.Status("Adding torrent...")

	var (
		req *retryablehttp.Request
		err error
	)
	if strings.HasPrefix(locator, "magnet:") {
		req, err = c.magnetRequest(ctx, locator)
	} else {
		req, err = c.uploadRequest(ctx, locator)
	}
	if err != nil {
		c.sink.Status("Error adding torrent: " + err.Error())
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.sink.Status("Error adding torrent: " + err.Error())
		return nil, fmt.Errorf("add torrent: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		text := strings.TrimSpace(string(body))
		c.sink.Status("Failed to add torrent: " + text)
		return nil, fmt.Errorf("add torrent: %s", text)
	}

	var decoded addResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		c.sink.Status("Error adding torrent: " + err.Error())
		return nil, fmt.Errorf("decode add response: %w", err)
	}

	id := lo.CoalesceOrEmpty(decoded.TorrentID, decoded.ID)
	if id == "" {
		c.sink.Status("Error adding torrent: engine returned no session id")
		return nil, fmt.Errorf("add torrent: missing session id")
	}

	c.sink.Status("Torrent added successfully")
	return &Session{ID: id, Name: decoded.Name}, nil
}

func (c *Client) magnetRequest(ctx context.Context, locator string) (*retryablehttp.Request, error) {
	payload, err := json.Marshal(map[string]string{"magnet_link": locator})
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/torrents", payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) uploadRequest(ctx context.Context, path string) (*retryablehttp.Request, error) {
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("torrent_file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/torrents/upload", buf.Bytes())
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req, nil
}

// Files refreshes the session's entry list from the engine, filtered to
// playable media, order preserved. A failed refresh reports the failure and
// leaves the previous entry list untouched.
func (c *Client) Files(ctx context.Context, s *Session) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/torrents/%s/files", c.base, s.ID), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.sink.Status("Error refreshing files: " + err.Error())
		return fmt.Errorf("list files: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.sink.Status(fmt.Sprintf("Error refreshing files: engine returned %d", resp.StatusCode))
		return fmt.Errorf("list files: status %d", resp.StatusCode)
	}

	var decoded struct {
		Files []Entry `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.sink.Status("Error refreshing files: " + err.Error())
		return fmt.Errorf("decode file list: %w", err)
	}

	playable := FilterPlayable(decoded.Files)
	s.SetEntries(playable)

	if len(playable) == 0 {
		c.sink.Status("No video files found")
	} else {
		c.sink.Status("Found " + util.Quantify(len(playable), "video file", "video files"))
	}
	return nil
}

// StreamURL computes the engine-served address for one entry's byte stream.
// The entry name is URL-escaped; the result is an opaque locator for the
// playback layer.
func (c *Client) StreamURL(s *Session, entry Entry) string {
	return fmt.Sprintf("%s/api/stream/%s/%s", c.base, s.ID, url.PathEscape(entry.Name))
}
