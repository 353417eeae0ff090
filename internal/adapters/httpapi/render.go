package httpapi

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"schemer/internal/adapters/raster"
	"schemer/internal/application"
	"schemer/internal/application/commands"
	"schemer/internal/geometry"
	"schemer/internal/ports"
)

const (
	defaultRenderWidth  = 1200
	defaultRenderHeight = 800
	maxRenderSide       = 4096
)

// RenderHandler draws the stored diagram as a PNG.
//
// Query: w, h (pixels), scale (fixed zoom; omitted fits the diagram),
// select (repeatable link ref to highlight), locale.
type RenderHandler struct {
	store  ports.DiagramStore
	logger *slog.Logger
}

// NewRenderHandler creates a render handler
func NewRenderHandler(store ports.DiagramStore, logger *slog.Logger) *RenderHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RenderHandler{store: store, logger: logger}
}

func (h *RenderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	width, err := dimension(q.Get("w"), defaultRenderWidth)
	if err != nil {
		http.Error(w, "invalid w: "+err.Error(), http.StatusBadRequest)
		return
	}
	height, err := dimension(q.Get("h"), defaultRenderHeight)
	if err != nil {
		http.Error(w, "invalid h: "+err.Error(), http.StatusBadRequest)
		return
	}

	surface, err := raster.New(width, height)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cmd := commands.NewRenderCommand(h.store, surface)
	cmd.Select = q["select"]
	cmd.Locale = q.Get("locale")
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale <= 0 {
			http.Error(w, "invalid scale", http.StatusBadRequest)
			return
		}
		cam := geometry.Camera{Scale: scale}
		cmd.Camera = &cam
	}

	if _, err := cmd.Execute(r.Context()); err != nil {
		if errors.Is(err, application.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to render scheme", "error", err)
		http.Error(w, "failed to render scheme", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := surface.EncodePNG(&buf); err != nil {
		http.Error(w, "failed to encode png", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

func dimension(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n <= 0 || n > maxRenderSide {
		return 0, errors.New("out of range")
	}
	return n, nil
}
