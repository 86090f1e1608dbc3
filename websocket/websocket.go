// Package websocket provides WebSocket source and sink connectors.
package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/systour/systour"
	"github.com/systour/systour/flow"
)

// Message represents a WebSocket message container.
// Message types are defined in [RFC 6455], section 11.8.
//
// [RFC 6455]: https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
type Message struct {
	MsgType int
	Payload []byte
}

const closeWriteTimeout = time.Second

// Opt configures a connector.
type Opt func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the connector logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Opt {
	return func(o *options) {
		o.logger = logger
	}
}

func makeOptions(opts []Opt) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Source represents a WebSocket source connector. Every received data
// message is emitted as a Message.
type Source struct {
	connection *ws.Conn
	out        chan any
	closeOnce  sync.Once
	opts       options
}

var _ systour.Source = (*Source)(nil)

// NewSource dials url and returns a Source of the received messages.
// The source stops when ctx is done or the peer closes the connection.
func NewSource(ctx context.Context, url string, opts ...Opt) (*Source, error) {
	conn, _, err := ws.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	source := &Source{
		connection: conn,
		out:        make(chan any),
		opts:       makeOptions(opts),
	}
	go source.process(ctx)

	return source, nil
}

func (wsock *Source) process(ctx context.Context) {
	// closing the connection unblocks ReadMessage
	stop := context.AfterFunc(ctx, wsock.close)
	defer stop()

	for {
		messageType, payload, err := wsock.connection.ReadMessage()
		if err != nil {
			var closeErr *ws.CloseError
			switch {
			case ctx.Err() != nil:
				wsock.opts.logger.Info("Context canceled", slog.Any("error", ctx.Err()))
			case errors.As(err, &closeErr):
				wsock.opts.logger.Debug("Connection closed by peer", slog.Int("code", closeErr.Code))
			default:
				wsock.opts.logger.Error("Failed to read message", slog.Any("error", err))
			}
			break
		}

		select {
		case wsock.out <- Message{MsgType: messageType, Payload: payload}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			wsock.opts.logger.Info("Context canceled", slog.Any("error", ctx.Err()))
			break
		}
	}

	wsock.opts.logger.Debug("Closing WebSocket source connector")
	close(wsock.out)
	wsock.close()
}

func (wsock *Source) close() {
	wsock.closeOnce.Do(func() {
		_ = wsock.connection.WriteControl(ws.CloseMessage,
			ws.FormatCloseMessage(ws.CloseNormalClosure, ""), time.Now().Add(closeWriteTimeout))
		if err := wsock.connection.Close(); err != nil {
			wsock.opts.logger.Warn("Failed to close connection", slog.Any("error", err))
		}
	})
}

// Via streams data to a specified operator and returns it.
func (wsock *Source) Via(operator systour.Flow) systour.Flow {
	flow.DoStream(wsock, operator)
	return operator
}

// Out returns the output channel of the Source connector.
func (wsock *Source) Out() <-chan any {
	return wsock.out
}

// Sink represents a WebSocket sink connector. It accepts Message, string
// (sent as text) and []byte (sent as binary) elements.
type Sink struct {
	connection *ws.Conn
	in         chan any
	done       chan struct{}
	opts       options
}

var _ systour.Sink = (*Sink)(nil)

// NewConnSink returns a new Sink writing to an established connection,
// such as one accepted by an Upgrader. The sink owns the connection.
func NewConnSink(conn *ws.Conn, opts ...Opt) *Sink {
	sink := &Sink{
		connection: conn,
		in:         make(chan any),
		done:       make(chan struct{}),
		opts:       makeOptions(opts),
	}
	go sink.process()

	return sink
}

func (wsock *Sink) process() {
	defer close(wsock.done)

	for msg := range wsock.in {
		var err error
		switch m := msg.(type) {
		case Message:
			err = wsock.connection.WriteMessage(m.MsgType, m.Payload)
		case *Message:
			err = wsock.connection.WriteMessage(m.MsgType, m.Payload)
		case string:
			err = wsock.connection.WriteMessage(ws.TextMessage, []byte(m))
		case []byte:
			err = wsock.connection.WriteMessage(ws.BinaryMessage, m)
		default:
			wsock.opts.logger.Warn("Unsupported message type",
				slog.String("type", fmt.Sprintf("%T", m)))
		}

		// the peer is gone, discard the rest of the stream
		if err != nil {
			wsock.opts.logger.Debug("Failed to write message", slog.Any("error", err))
			for range wsock.in {
			}
			break
		}
	}

	wsock.opts.logger.Debug("Closing WebSocket sink connector")
	_ = wsock.connection.WriteControl(ws.CloseMessage,
		ws.FormatCloseMessage(ws.CloseNormalClosure, ""), time.Now().Add(closeWriteTimeout))
	if err := wsock.connection.Close(); err != nil {
		wsock.opts.logger.Warn("Failed to close connection", slog.Any("error", err))
	}
}

// In returns the input channel of the Sink connector.
func (wsock *Sink) In() chan<- any {
	return wsock.in
}

// AwaitCompletion blocks until the Sink has written all messages and
// closed the connection.
func (wsock *Sink) AwaitCompletion() {
	<-wsock.done
}
