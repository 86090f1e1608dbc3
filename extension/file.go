package extension

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/afero"

	"github.com/systour/systour"
	"github.com/systour/systour/flow"
)

// FileSource represents an inbound connector that creates a stream of
// elements from a file. The streaming element is a line of the file,
// including its trailing newline; the last line may lack one.
type FileSource struct {
	file afero.File
	out  chan any

	opts options
}

var _ systour.Source = (*FileSource)(nil)

// NewFileSource opens the named file on the given filesystem and returns a
// new FileSource connector. Open errors are returned to the caller instead
// of terminating the stream.
func NewFileSource(fs afero.Fs, fileName string, opts ...Opt) (*FileSource, error) {
	if fs == nil {
		return nil, errors.New("filesystem is nil")
	}

	file, err := fs.Open(fileName)
	if err != nil {
		return nil, err
	}

	fileSource := &FileSource{
		file: file,
		out:  make(chan any),
		opts: makeDefaultOptions(),
	}
	for _, opt := range opts {
		opt(&fileSource.opts)
	}

	// asynchronously send file lines downstream
	go fileSource.process()

	return fileSource, nil
}

func (fs *FileSource) process() {
	defer func() {
		if err := fs.file.Close(); err != nil {
			fs.opts.logger.Error("Failed to close file",
				slog.String("name", fs.file.Name()), slog.Any("error", err))
		}
		close(fs.out)
	}()

	reader := bufio.NewReader(fs.file)
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			select {
			case fs.out <- line:
			case <-fs.opts.ctx.Done():
				fs.opts.logger.Info("Context canceled", slog.Any("error", fs.opts.ctx.Err()))
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fs.opts.logger.Error("Failed to read file",
					slog.String("name", fs.file.Name()), slog.Any("error", err))
			}
			return
		}
	}
}

// Via asynchronously streams data to the given Flow and returns it.
func (fs *FileSource) Via(operator systour.Flow) systour.Flow {
	flow.DoStream(fs, operator)
	return operator
}

// Out returns the output channel of the FileSource connector.
func (fs *FileSource) Out() <-chan any {
	return fs.out
}

// FileMode selects how a FileSink opens its target.
type FileMode int

const (
	// FileModeCreate creates the file, truncating any existing content.
	FileModeCreate FileMode = iota
	// FileModeAppend creates the file if needed and appends to it.
	FileModeAppend
)

func (m FileMode) flags() int {
	if m == FileModeAppend {
		return os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	return os.O_CREATE | os.O_WRONLY | os.O_TRUNC
}

func (m FileMode) String() string {
	if m == FileModeAppend {
		return "append"
	}
	return "create"
}

// FileSink represents an outbound connector that writes streaming data
// to a file.
type FileSink struct {
	file afero.File
	in   chan any
	done chan struct{}
	err  error

	opts options
}

var _ systour.Sink = (*FileSink)(nil)

// NewFileSink opens the named file in the given mode and returns a new
// FileSink connector.
func NewFileSink(fs afero.Fs, fileName string, mode FileMode, opts ...Opt) (*FileSink, error) {
	if fs == nil {
		return nil, errors.New("filesystem is nil")
	}

	file, err := fs.OpenFile(fileName, mode.flags(), 0o644)
	if err != nil {
		return nil, err
	}

	fileSink := &FileSink{
		file: file,
		in:   make(chan any),
		done: make(chan struct{}),
		opts: makeDefaultOptions(),
	}
	for _, opt := range opts {
		opt(&fileSink.opts)
	}

	// asynchronously process stream data
	go fileSink.process()

	return fileSink, nil
}

func (fs *FileSink) process() {
	defer close(fs.done)

	for element := range fs.in {
		data, ok := elementBytes(element)
		if !ok {
			fs.opts.logger.Warn("Discarded stream element",
				slog.String("type", fmt.Sprintf("%T", element)))
			continue
		}

		// a failed write cancels the source and drains the input
		if _, err := fs.file.Write(data); err != nil {
			fs.opts.logger.Error("Failed to write element",
				slog.String("name", fs.file.Name()), slog.Any("error", err))
			fs.err = err
			fs.opts.ctxCancel()
			drainChan(fs.in)
			break
		}
	}

	if err := fs.file.Close(); err != nil {
		fs.opts.logger.Error("Failed to close file",
			slog.String("name", fs.file.Name()), slog.Any("error", err))
		if fs.err == nil {
			fs.err = err
		}
	}
}

// In returns the input channel of the FileSink connector.
func (fs *FileSink) In() chan<- any {
	return fs.in
}

// AwaitCompletion blocks until the FileSink has completed processing and
// flushing all data to the file.
func (fs *FileSink) AwaitCompletion() {
	<-fs.done
}

// Err returns the first write or close error, if any. It is only
// meaningful after AwaitCompletion returns.
func (fs *FileSink) Err() error {
	return fs.err
}
