package palette

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	ws "github.com/gorilla/websocket"

	"github.com/systour/systour/metrics"
	"github.com/systour/systour/websocket"
)

//go:embed templates/index.html
var templates embed.FS

var pageTemplate = template.Must(template.ParseFS(templates, "templates/index.html"))

type pageView struct {
	State        Snapshot
	Background   template.CSS
	ConceptColor template.CSS
	Output       any
	Traversal    []string
}

// Handler serves the palette page, its JSON API and the snapshot feed.
type Handler struct {
	palette  *Palette
	upgrader ws.Upgrader
	logger   *slog.Logger
}

// NewHandler returns a Handler for p.
func NewHandler(p *Palette, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		palette: p,
		logger:  logger,
	}
}

// Routes registers the palette routes on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.page)
	r.Get("/ws", h.feed)
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.state)
		r.Post("/color/{id}", h.color)
		r.Post("/random", h.action("random", func(p *Palette) { p.Random() }))
		r.Post("/key/{key}", h.key)
		r.Post("/demo/text", h.action("text", (*Palette).TextDemo))
		r.Post("/demo/class", h.action("class", func(p *Palette) { p.ToggleHighlight() }))
		r.Post("/demo/attribute", h.action("attribute", func(p *Palette) { p.ClickAttribute() }))
		r.Post("/concept", h.action("concept", func(p *Palette) { p.ToggleConcept() }))
	})
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	snap := h.palette.Snapshot()
	// colors are either button ids, constants or generated rgb() values
	view := pageView{
		State:        snap,
		Background:   template.CSS(snap.Background),
		ConceptColor: template.CSS(snap.ConceptColor),
		Output:       snap.Output,
		Traversal:    Traversal(),
	}
	if snap.OutputHTML {
		// only ever the fixed HTMLMessage
		view.Output = template.HTML(snap.Output)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, view); err != nil {
		h.logger.Error("Failed to render page", slog.Any("error", err))
	}
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.palette.Snapshot())
}

func (h *Handler) color(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == RandomID {
		h.palette.Random()
	} else if err := h.palette.Select(id); err != nil {
		if errors.Is(err, ErrUnknownColor) {
			h.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
			return
		}
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	metrics.CountPaletteAction("color")
	h.respond(w, r)
}

func (h *Handler) key(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if h.palette.Key(key) {
		metrics.CountPaletteAction("key")
	} else {
		h.logger.Debug("Ignored key", slog.String("key", key))
	}
	h.respond(w, r)
}

func (h *Handler) action(name string, apply func(*Palette)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apply(h.palette)
		metrics.CountPaletteAction(name)
		h.respond(w, r)
	}
}

// respond redirects form posts back to the page and answers API calls
// with the new state.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request) {
	if isFormPost(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.writeJSON(w, http.StatusOK, h.palette.Snapshot())
}

func isFormPost(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("Failed to write response", slog.Any("error", err))
	}
}

// feed streams every snapshot as a JSON text message until the client
// goes away.
func (h *Handler) feed(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Failed to upgrade connection", slog.Any("error", err))
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// the client never sends data, reading only detects the close
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	sink := websocket.NewConnSink(conn, websocket.WithLogger(h.logger))
	snapshots, unsubscribe := h.palette.Subscribe()
	defer unsubscribe()

	h.logger.Debug("Feed client connected", slog.String("remote", r.RemoteAddr))
	defer h.logger.Debug("Feed client disconnected", slog.String("remote", r.RemoteAddr))

	for {
		select {
		case snap := <-snapshots:
			payload, err := json.Marshal(snap)
			if err != nil {
				h.logger.Error("Failed to encode snapshot", slog.Any("error", err))
				continue
			}
			sink.In() <- string(payload)
		case <-ctx.Done():
			close(sink.In())
			sink.AwaitCompletion()
			return
		}
	}
}
