// Package session resolves content added to the engine into playable media
// entries and worker-served stream addresses. It never reads stream bytes.
package session

import (
	"strings"

	"github.com/quickplay-cli/quickplay/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Entry is one addressable media item discovered within a content session.
type Entry struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// defaultExtensions mirrors the suffixes the engine itself treats as video,
// used when configuration has not been initialized.
var defaultExtensions = []string{
	".mp4", ".mkv", ".avi", ".mov", ".wmv", ".flv", ".webm", ".m4v", ".3gp", ".ts", ".m2ts",
}

// Playable reports whether a filename carries a recognized media suffix.
// Matching is case-insensitive.
func Playable(name string) bool {
	exts := viper.GetStringSlice(key.PlayableExtensions)
	if len(exts) == 0 {
		exts = defaultExtensions
	}

	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// FilterPlayable returns the playable subset of entries, order preserved.
func FilterPlayable(entries []Entry) []Entry {
	return lo.Filter(entries, func(e Entry, _ int) bool {
		return Playable(e.Name)
	})
}
