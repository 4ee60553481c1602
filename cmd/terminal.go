// Package cmd implements the command-line interface for quickplay.
package cmd

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/quickplay-cli/quickplay/color"
	"github.com/quickplay-cli/quickplay/log"
	"github.com/quickplay-cli/quickplay/playback"
	"github.com/quickplay-cli/quickplay/style"
	"github.com/quickplay-cli/quickplay/util"
)

// terminalSink writes status and progress reports to the terminal. Progress
// lines are erasable so high-frequency updates overwrite each other instead
// of scrolling the screen.
type terminalSink struct {
	mu    sync.Mutex
	erase func()
}

func newTerminalSink() *terminalSink {
	return &terminalSink{}
}

func (t *terminalSink) Status(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.clear()
	fmt.Println(style.Fg(color.Cyan)(text))
	log.Info(text)
}

func (t *terminalSink) Progress(percent float64, rate string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.clear()
	line := fmt.Sprintf("%5.1f%%", percent)
	if rate != "" {
		line = fmt.Sprintf("↓ %.1f%% %s", percent, style.Faint("("+rate+")"))
	}
	t.erase = util.PrintErasable(line)
}

func (t *terminalSink) clear() {
	if t.erase != nil {
		t.erase()
		t.erase = nil
	}
}

// terminalRenderer paints frames into the terminal using half-block glyphs,
// two pixel rows per character cell. The bottom rows stay free for the
// timecode and the command prompt.
type terminalRenderer struct {
	mu sync.Mutex
}

func newTerminalRenderer() *terminalRenderer {
	return &terminalRenderer{}
}

// Size reports the drawable area in pixels. Width maps to columns directly;
// every row fits two pixel rows.
func (r *terminalRenderer) Size() (int, int) {
	w, h, err := util.TerminalSize()
	if err != nil {
		return 0, 0
	}
	return w, util.Max((h-3)*2, 2)
}

func (r *terminalRenderer) Present(frame *playback.Frame) {
	if frame == nil || frame.Image == nil {
		return
	}

	var b strings.Builder
	bounds := frame.Image.Bounds()
	b.WriteString("\x1b[H")

	for y := bounds.Min.Y; y+1 < bounds.Max.Y; y += 2 {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			tr, tg, tb, _ := frame.Image.At(x, y).RGBA()
			br, bg, bb, _ := frame.Image.At(x, y+1).RGBA()
			fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				tr>>8, tg>>8, tb>>8, br>>8, bg>>8, bb>>8)
		}
		b.WriteString("\x1b[0m\n")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = os.Stdout.WriteString(b.String())
}

func (r *terminalRenderer) Timecode(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = os.Stdout.WriteString("\x1b[K" + style.Bold(text) + "\r")
}
