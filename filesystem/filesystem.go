// Package filesystem is the single entry point for disk access: config
// files, daily logs and torrent descriptors all go through the afero handle
// it exposes, so tests can swap the whole tree for an in-memory one.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the afero handle every package reads and writes through.
func API() afero.Afero {
	return backend
}

// SetOsFs points the handle back at the real disk.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs swaps in a volatile in-memory tree, used by tests that write
// config files or torrent descriptors.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}
