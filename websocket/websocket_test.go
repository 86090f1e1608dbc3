package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/systour/systour/internal/assert"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestConnSinkToSource(t *testing.T) {
	upgrader := ws.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		sink := NewConnSink(conn)
		sink.In() <- "first"
		sink.In() <- []byte{0x01, 0x02}
		sink.In() <- Message{MsgType: ws.TextMessage, Payload: []byte("third")}
		sink.In() <- 42
		close(sink.In())
		sink.AwaitCompletion()
	}))
	defer srv.Close()

	source, err := NewSource(context.Background(), wsURL(srv))
	assert.NoError(t, err)

	var got []Message
	for e := range source.Out() {
		got = append(got, e.(Message))
	}

	assert.Equal(t, []Message{
		{MsgType: ws.TextMessage, Payload: []byte("first")},
		{MsgType: ws.BinaryMessage, Payload: []byte{0x01, 0x02}},
		{MsgType: ws.TextMessage, Payload: []byte("third")},
	}, got)
}

func TestSource_ContextCancel(t *testing.T) {
	upgrader := ws.Upgrader{}
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	source, err := NewSource(ctx, wsURL(srv))
	assert.NoError(t, err)

	cancel()
	select {
	case _, ok := <-source.Out():
		assert.True(t, !ok, "source closed")
	case <-time.After(5 * time.Second):
		t.Fatal("source was not closed on cancel")
	}
}

func TestNewSource_DialError(t *testing.T) {
	_, err := NewSource(context.Background(), "ws://127.0.0.1:1/none")
	assert.ErrorContains(t, err, "dial ws://127.0.0.1:1/none")
}
