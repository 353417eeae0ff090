package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"schemer/internal/application"
	"schemer/internal/domain"
	"schemer/internal/graph"
	"schemer/internal/ports"
)

// SchemeHandler serves GET and POST on the current diagram
type SchemeHandler struct {
	store        ports.DiagramStore
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewSchemeHandler creates a handler; a non-positive limit means 1 MiB
func NewSchemeHandler(store ports.DiagramStore, maxBodyBytes int64, logger *slog.Logger) *SchemeHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SchemeHandler{store: store, maxBodyBytes: maxBodyBytes, logger: logger}
}

func (h *SchemeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r)
	case http.MethodPost:
		h.handlePost(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SchemeHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	d, err := h.store.Load(r.Context())
	if err != nil {
		h.logger.Error("failed to read scheme", "error", err)
		http.Error(w, fmt.Sprintf("failed to read scheme: %v", err), http.StatusInternalServerError)
		return
	}
	if d == nil {
		d = domain.NewDiagram()
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *SchemeHandler) handlePost(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	defer r.Body.Close()

	var payload map[string]any
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&payload); err != nil {
		http.Error(w, "invalid json payload", http.StatusBadRequest)
		return
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		http.Error(w, "invalid json payload", http.StatusBadRequest)
		return
	}

	d, err := normalize(payload)
	if err != nil {
		http.Error(w, "invalid scheme: "+err.Error(), http.StatusBadRequest)
		return
	}

	s := graph.NewStore()
	s.Replace(d)
	s.EnsureEntityIDs()
	s.EnsureLinkNumbers()
	if err := application.Commit(r.Context(), h.store, s); err != nil {
		h.logger.Error("failed to persist scheme", "error", err)
		http.Error(w, fmt.Sprintf("failed to persist scheme: %v", err), http.StatusInternalServerError)
		return
	}

	h.logger.Info("scheme saved", "entities", len(d.Nodes), "links", len(d.Links))
	w.WriteHeader(http.StatusNoContent)
}

// normalize replaces non-array nodes/links with empty ones before the
// regular decode, so a POST is never rejected for shape alone.
func normalize(raw map[string]any) (*domain.Diagram, error) {
	if raw == nil {
		return domain.NewDiagram(), nil
	}
	for _, key := range []string{"nodes", "links"} {
		if _, ok := raw[key].([]any); !ok {
			raw[key] = []any{}
		}
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	return domain.DecodeDiagram(data)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(raw, '\n'))
}
