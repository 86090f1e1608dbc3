package server_test

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/systour/systour/internal/assert"
	"github.com/systour/systour/server"
)

func TestHttpServer(t *testing.T) {
	s, err := server.Http("127.0.0.1:0")
	assert.NoError(t, err)

	s.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	done := make(chan error, 1)
	go func() { done <- s.Serve() }()

	resp, err := http.Get("http://" + s.Addr() + "/ping")
	assert.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	resp, err = http.Get("http://" + s.Addr() + "/metrics")
	assert.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.NoError(t, s.Shutdown(context.Background()))
	assert.NoError(t, <-done)
}
