package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemer/internal/domain"
)

type memStore struct {
	d       *domain.Diagram
	loadErr error
}

func (m *memStore) Load(context.Context) (*domain.Diagram, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.d.Clone(), nil
}

func (m *memStore) Save(_ context.Context, d *domain.Diagram) error {
	m.d = d.Clone()
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSchemeHandler(t *testing.T) {
	t.Run("GET returns default scheme when nothing is stored", func(t *testing.T) {
		h := NewSchemeHandler(&memStore{}, 0, quietLogger())
		req := httptest.NewRequest(http.MethodGet, "/api/scheme/current", nil)
		w := httptest.NewRecorder()

		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"nodes":[],"links":[],"nextEntityId":1,"nextLinkNo":1}`, w.Body.String())
	})

	t.Run("GET reports store errors", func(t *testing.T) {
		h := NewSchemeHandler(&memStore{loadErr: errors.New("disk gone")}, 0, quietLogger())
		w := httptest.NewRecorder()

		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/scheme/current", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "disk gone")
	})

	t.Run("POST saves a normalized scheme", func(t *testing.T) {
		store := &memStore{}
		h := NewSchemeHandler(store, 0, quietLogger())
		body := `{
			"nodes": [{"id": 3, "x": 1, "y": 2, "title": "Users", "fields": [{"name":"id","type":"int"}]}],
			"links": [{"id": "a", "from": 3, "to": 3}],
			"nextEntityId": 1.5
		}`
		w := httptest.NewRecorder()

		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/scheme/current", strings.NewReader(body)))

		require.Equal(t, http.StatusNoContent, w.Code)
		require.NotNil(t, store.d)
		assert.Equal(t, "Users", store.d.Nodes[0].Title)
		assert.Equal(t, 4, store.d.NextEntityID)
		assert.Equal(t, 1, store.d.Links[0].Num)
		assert.Equal(t, 2, store.d.NextLinkNo)
	})

	t.Run("POST replaces non-array collections", func(t *testing.T) {
		store := &memStore{}
		h := NewSchemeHandler(store, 0, quietLogger())
		w := httptest.NewRecorder()

		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/scheme/current", strings.NewReader(`{"nodes": "x", "links": 7}`)))

		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, store.d.Nodes)
		assert.Empty(t, store.d.Links)
	})

	t.Run("POST rejects bad payloads", func(t *testing.T) {
		tests := []struct {
			name string
			body string
		}{
			{name: "not json", body: `nope`},
			{name: "trailing data", body: `{"nodes":[],"links":[]} {}`},
			{name: "too large", body: `{"nodes":[],"links":[],"pad":"` + strings.Repeat("x", 200) + `"}`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				store := &memStore{}
				h := NewSchemeHandler(store, 64, quietLogger())
				w := httptest.NewRecorder()

				h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/scheme/current", strings.NewReader(tt.body)))

				assert.Equal(t, http.StatusBadRequest, w.Code)
				assert.Nil(t, store.d)
			})
		}
	})

	t.Run("other methods are not allowed", func(t *testing.T) {
		h := NewSchemeHandler(&memStore{}, 0, quietLogger())
		w := httptest.NewRecorder()

		h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/scheme/current", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, "GET, POST", w.Header().Get("Allow"))
	})
}

func TestRouter(t *testing.T) {
	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<h1>schemer</h1>"), 0644))

	store := &memStore{d: &domain.Diagram{
		Nodes: []domain.Node{
			{ID: 1, X: 0, Y: 0, Width: 220, Title: "Users", Fields: []domain.Field{domain.DefaultField()}},
			{ID: 2, X: 300, Y: 0, Width: 220, Title: "Orders", Fields: []domain.Field{domain.DefaultField()}},
		},
		Links: []domain.Link{
			{ID: "l1", From: 1, To: 2, Num: 1, FromCardinality: domain.CardinalityOne, ToCardinality: domain.CardinalityMany},
		},
		NextEntityID: 3,
		NextLinkNo:   2,
	}}
	srv := httptest.NewServer(NewRouter(static, store, 0, quietLogger()))
	defer srv.Close()

	t.Run("serves static files", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "schemer")
	})

	t.Run("serves the current scheme", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/scheme/current")
		require.NoError(t, err)
		defer resp.Body.Close()

		var d domain.Diagram
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
		assert.Len(t, d.Nodes, 2)
	})

	t.Run("renders a png", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/scheme/render.png?w=320&h=200&select=%231")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
		img, err := png.Decode(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, 320, img.Bounds().Dx())
		assert.Equal(t, 200, img.Bounds().Dy())
	})

	t.Run("render rejects bad sizes and unknown links", func(t *testing.T) {
		for path, want := range map[string]int{
			"/api/scheme/render.png?w=0":          http.StatusBadRequest,
			"/api/scheme/render.png?h=abc":        http.StatusBadRequest,
			"/api/scheme/render.png?scale=-1":     http.StatusBadRequest,
			"/api/scheme/render.png?select=%2399": http.StatusNotFound,
		} {
			resp, err := http.Get(srv.URL + path)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, want, resp.StatusCode, path)
		}
	})
}
