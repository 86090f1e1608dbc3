// Package fsdemo runs the file I/O activities of the tour: synchronous and
// callback reads and writes, appends, encodings, streaming rewrites and a
// hex dumper.
package fsdemo

import (
	"io"
	"log/slog"
	"time"

	"github.com/spf13/afero"
)

// DefaultSelf is the file the quick reference reads when Env.Self is empty.
const DefaultSelf = "notes.txt"

// Env is the filesystem and console an activity run works against.
type Env struct {
	// Fs is rooted at the working directory; every activity path is
	// relative to it.
	Fs afero.Fs
	// Self is the file the quick reference reads as "the current file".
	// out.txt is written beside it.
	Self   string
	Out    io.Writer
	Logger *slog.Logger
	Now    func() time.Time
}

// NewEnv returns an Env over the OS filesystem rooted at dir.
func NewEnv(dir string, out io.Writer) *Env {
	return &Env{
		Fs:     afero.NewBasePathFs(afero.NewOsFs(), dir),
		Self:   DefaultSelf,
		Out:    out,
		Logger: slog.Default(),
		Now:    time.Now,
	}
}

func (e *Env) self() string {
	if e.Self == "" {
		return DefaultSelf
	}
	return e.Self
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}
