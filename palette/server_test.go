package palette

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/systour/systour/internal/assert"
)

func newTestServer(t *testing.T) (*Palette, *httptest.Server) {
	t.Helper()
	p := New(WithTextSwapDelay(time.Hour))
	r := chi.NewRouter()
	NewHandler(p, nil).Routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		p.Close()
	})
	return p, srv
}

func noRedirect(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

func postJSON(t *testing.T, srv *httptest.Server, path string) (int, Snapshot) {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", nil)
	assert.NoError(t, err)
	defer resp.Body.Close()

	var s Snapshot
	if resp.StatusCode == http.StatusOK {
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	}
	return resp.StatusCode, s
}

func TestHandler_Page(t *testing.T) {
	p, srv := newTestServer(t)
	p.ClickAttribute()

	resp, err := http.Get(srv.URL + "/")
	assert.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	page := string(body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, `style="--bg: pink"`)
	assert.Contains(t, page, `<button id="pink" type="submit" class="active" aria-pressed="true">pink</button>`)
	assert.Contains(t, page, `<button id="red" type="submit" aria-pressed="false">red</button>`)
	assert.Contains(t, page, `data-clicks="1" title="Button clicked 1 times"`)
	assert.Contains(t, page, "controls parent: MAIN")
}

func TestHandler_PageControlsMatchTraversal(t *testing.T) {
	_, srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	assert.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)

	page := string(body)
	start := strings.Index(page, `<div id="controls">`)
	assert.True(t, start >= 0, "controls rendered")
	controls := page[start : start+strings.Index(page[start:], "</div>")]

	// every child of #controls is a form wrapping one button, in button order
	last := -1
	for _, id := range append(append([]string(nil), Colors...), RandomID) {
		child := `<form method="post" action="/api/color/` + id + `"><button id="` + id + `"`
		i := strings.Index(controls, child)
		assert.True(t, i > last, "form>button#"+id+" follows the previous control")
		last = i
	}
	assert.Equal(t, len(Colors)+1, strings.Count(controls, "<form "))
	assert.Contains(t, Traversal()[1], "form>button#"+RandomID+"]")
}

func TestHandler_PageOutputEscaping(t *testing.T) {
	p, srv := newTestServer(t)

	p.mu.Lock()
	p.state.Output = HTMLMessage
	p.state.OutputHTML = false
	p.mu.Unlock()

	resp, err := http.Get(srv.URL + "/")
	assert.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "This uses &lt;strong&gt;innerHTML&lt;/strong&gt;")

	p.mu.Lock()
	p.state.OutputHTML = true
	p.mu.Unlock()

	resp, err = http.Get(srv.URL + "/")
	assert.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "This uses <strong>innerHTML</strong>")
}

func TestHandler_API(t *testing.T) {
	_, srv := newTestServer(t)

	status, s := postJSON(t, srv, "/api/color/red")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "red", s.Background)

	status, _ = postJSON(t, srv, "/api/color/purple")
	assert.Equal(t, http.StatusNotFound, status)

	_, s = postJSON(t, srv, "/api/color/random")
	assert.Equal(t, "", s.Active())

	_, s = postJSON(t, srv, "/api/key/Y")
	assert.Equal(t, "yellow", s.Background)

	_, s = postJSON(t, srv, "/api/key/%20")
	assert.True(t, strings.HasPrefix(s.Background, "rgb("), s.Background)

	_, s = postJSON(t, srv, "/api/key/q")
	assert.True(t, strings.HasPrefix(s.Background, "rgb("), "q is ignored")

	_, s = postJSON(t, srv, "/api/random")
	assert.True(t, strings.HasPrefix(s.Background, "rgb("), s.Background)

	_, s = postJSON(t, srv, "/api/demo/text")
	assert.Equal(t, SafeTextMessage, s.Output)

	_, s = postJSON(t, srv, "/api/demo/class")
	assert.True(t, s.Highlight, "highlight added")

	_, s = postJSON(t, srv, "/api/demo/attribute")
	assert.Equal(t, 1, s.Clicks)

	_, s = postJSON(t, srv, "/api/concept")
	assert.Equal(t, "lightcoral", s.ConceptColor)

	resp, err := http.Get(srv.URL + "/api/state")
	assert.NoError(t, err)
	defer resp.Body.Close()
	var state Snapshot
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	assert.Equal(t, s, state)
}

func TestHandler_FormPostRedirects(t *testing.T) {
	p, srv := newTestServer(t)
	client := &http.Client{CheckRedirect: noRedirect}

	resp, err := client.PostForm(srv.URL+"/api/color/yellow", url.Values{})
	assert.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Equal(t, "yellow", p.Snapshot().Background)
}

func TestHandler_Feed(t *testing.T) {
	p, srv := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	go func() {
		done <- Watch(ctx, wsURL, pw, nil)
		pw.Close()
	}()

	lines := bufio.NewScanner(pr)
	assert.True(t, lines.Scan(), "initial snapshot")
	assert.Contains(t, lines.Text(), `v0 background="pink" active=pink`)

	assert.NoError(t, p.Select("red"))
	assert.True(t, lines.Scan(), "snapshot after select")
	assert.Contains(t, lines.Text(), `v1 background="red" active=red`)

	cancel()
	for lines.Scan() {
	}
	assert.NoError(t, <-done)
}
