// Package filesystem holds the afero backend every file access goes through.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

func API() afero.Afero {
	return backend
}

// Use swaps the backend.
func Use(fs afero.Fs) {
	backend = afero.Afero{Fs: fs}
}

func SetOsFs() {
	Use(afero.NewOsFs())
}

// SetMemMapFs switches to a fresh in-memory backend. Tests call it before
// touching config, history or recordings.
func SetMemMapFs() {
	Use(afero.NewMemMapFs())
}
