package palette

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/goccy/go-json"
	ws "github.com/gorilla/websocket"

	"github.com/systour/systour/extension"
	"github.com/systour/systour/flow"
	"github.com/systour/systour/websocket"
)

// FormatSnapshot renders a snapshot as a single line.
func FormatSnapshot(s Snapshot) string {
	active := s.Active()
	if active == "" {
		active = "-"
	}
	return fmt.Sprintf("v%d background=%s active=%s highlight=%t clicks=%d concept=%s output=%s",
		s.Version, strconv.Quote(s.Background), active, s.Highlight, s.Clicks,
		s.ConceptColor, strconv.Quote(s.Output))
}

// Watch follows the snapshot feed at url and writes one line per snapshot
// to w until ctx is done or the server closes the feed.
func Watch(ctx context.Context, url string, w io.Writer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	source, err := websocket.NewSource(ctx, url, websocket.WithLogger(logger))
	if err != nil {
		return err
	}
	sink, err := extension.NewWriterSink(extension.NopCloser(w), extension.WithLogger(logger))
	if err != nil {
		return err
	}

	source.
		Via(flow.NewFilter(func(m websocket.Message) bool {
			return m.MsgType == ws.TextMessage
		}, 1)).
		Via(flow.NewMap(func(m websocket.Message) string {
			var s Snapshot
			if err := json.Unmarshal(m.Payload, &s); err != nil {
				logger.Warn("Malformed snapshot", slog.Any("error", err))
				return ""
			}
			return FormatSnapshot(s) + "\n"
		}, 1)).
		To(sink)

	return nil
}
