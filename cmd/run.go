// Package cmd implements the command-line interface for quickplay.
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/quickplay-cli/quickplay/color"
	"github.com/quickplay-cli/quickplay/engine"
	"github.com/quickplay-cli/quickplay/events"
	"github.com/quickplay-cli/quickplay/log"
	"github.com/quickplay-cli/quickplay/playback"
	"github.com/quickplay-cli/quickplay/session"
	"github.com/quickplay-cli/quickplay/status"
	"github.com/quickplay-cli/quickplay/style"
	"github.com/samber/lo"
)

// runSession drives one end-to-end playback session: it starts the engine,
// submits the locator, lets the user pick an entry and hands the stream to
// the playback clock, then serves transport commands until the user quits.
func runSession(locator string) error {
	sink := newTerminalSink()
	supervisor := engine.New(enginePath(), sink)

	ctx := context.Background()
	if err := supervisor.Start(ctx); err != nil {
		return err
	}
	defer supervisor.Stop()

	client := session.NewClient(supervisor.BaseURL(), sink)
	manager := session.NewManager()
	renderer := newTerminalRenderer()
	clock := playback.NewClock(renderer, sink)
	defer func() { _ = clock.Close() }()

	listener := events.NewListener(supervisor.BaseURL(), sessionEvents(ctx, client, manager, sink))
	if err := listener.Start(); err != nil {
		log.Warnf("events: %s", err)
	} else {
		defer listener.Stop()
	}

	if locator == "" {
		input := survey.Input{Message: "Magnet link or torrent file"}
		if err := survey.AskOne(&input, &locator, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	active, err := client.Add(ctx, locator)
	if err != nil {
		return err
	}
	manager.Replace(active)

	if err = awaitEntries(ctx, client, active); err != nil {
		return err
	}

	entry, err := pickEntry(active)
	if err != nil {
		return err
	}

	if err = clock.Open(client.StreamURL(active, entry)); err != nil {
		return err
	}
	if err = clock.Play(); err != nil {
		return err
	}

	return transportLoop(clock, active)
}

// sessionEvents builds the handler that mirrors engine events into the
// active session: download progress goes to the sink, a torrent_added event
// adopts the engine-assigned session when none is active yet, and
// files_available re-fetches the entry list so it tracks what the engine
// keeps discovering.
func sessionEvents(ctx context.Context, client *session.Client, manager *session.Manager, sink status.Sink) events.Handler {
	return func(e events.Event) {
		switch e.Type {
		case events.DownloadProgress:
			sink.Progress(e.Progress, fmt.Sprintf("%.1f KB/s", e.Speed))
		case events.TorrentAdded:
			if manager.Active().IsAbsent() && e.TorrentID != "" {
				manager.Replace(&session.Session{ID: e.TorrentID, Name: e.Name})
			}
			sink.Status("Torrent added: " + e.Name)
		case events.FilesAvailable:
			if active, ok := manager.Active().Get(); ok {
				_ = client.Files(ctx, active)
			}
		case events.Fault:
			sink.Status("Engine error: " + e.Message)
		}
	}
}

// awaitEntries polls the engine until the session exposes at least one
// playable entry. The engine needs to fetch torrent metadata first, so the
// list is usually empty right after the add.
func awaitEntries(ctx context.Context, client *session.Client, s *session.Session) error {
	const attempts = 60

	for attempt := 0; attempt < attempts; attempt++ {
		_ = client.Files(ctx, s)
		if len(s.EntryList()) > 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}

	return errors.New("no playable files appeared in time")
}

func pickEntry(s *session.Session) (session.Entry, error) {
	entries := s.EntryList()
	if len(entries) == 1 {
		return entries[0], nil
	}

	options := lo.Map(entries, func(e session.Entry, _ int) string {
		return fmt.Sprintf("%s (%s)", e.Name, humanSize(e.Size))
	})

	var picked int
	prompt := survey.Select{
		Message:  "Play which file?",
		Options:  options,
		PageSize: 10,
	}
	if err := survey.AskOne(&prompt, &picked); err != nil {
		return session.Entry{}, err
	}

	return entries[picked], nil
}

func humanSize(size int64) string {
	const unit = 1024

	if size < unit {
		return fmt.Sprintf("%d B", size)
	}

	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}

// transportLoop reads transport commands from stdin until quit or EOF.
func transportLoop(clock *playback.Clock, s *session.Session) error {
	fmt.Println(style.Faint("Commands: play, pause, stop, seek <percent>, files, quit"))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(style.Fg(color.Cyan)("> "))
		if !scanner.Scan() {
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "play":
			if err := clock.Play(); err != nil {
				fmt.Println(style.Fg(color.Red)(err.Error()))
			}
		case "pause":
			clock.Pause()
		case "stop":
			clock.Stop()
		case "seek":
			if len(fields) < 2 {
				fmt.Println("usage: seek <percent>")
				continue
			}
			percent, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				fmt.Println("usage: seek <percent>")
				continue
			}
			if err = clock.Seek(percent / 100); err != nil {
				fmt.Println(style.Fg(color.Red)(err.Error()))
			}
		case "files":
			for _, entry := range s.EntryList() {
				fmt.Printf("%s %s\n", entry.Name, style.Faint(humanSize(entry.Size)))
			}
		case "quit", "exit", "q":
			clock.Stop()
			return nil
		default:
			fmt.Println("unknown command: " + fields[0])
		}
	}
}
