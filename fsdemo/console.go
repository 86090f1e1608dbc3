package fsdemo

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/systour/systour/extension"
	"github.com/systour/systour/flow"
)

// console serializes output from concurrent activities. Every message is
// written by a single WriterSink in arrival order.
type console struct {
	lines chan any
	sink  *extension.WriterSink
}

func newConsole(w io.Writer, logger *slog.Logger) (*console, error) {
	sink, err := extension.NewWriterSink(extension.NopCloser(w), extension.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	c := &console{
		lines: make(chan any),
		sink:  sink,
	}
	flow.DoStream(extension.NewChanSource(c.lines), sink)
	return c, nil
}

// write sends s as is.
func (c *console) write(s string) {
	c.lines <- s
}

func (c *console) println(a ...any) {
	c.lines <- fmt.Sprintln(a...)
}

func (c *console) printf(format string, a ...any) {
	c.lines <- fmt.Sprintf(format, a...)
}

// close flushes pending output. No message may be sent afterwards.
func (c *console) close() {
	close(c.lines)
	c.sink.AwaitCompletion()
}
