// Package remote stores the diagram on a schemer HTTP server.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"schemer/internal/domain"
	"schemer/internal/ports"
)

const schemePath = "/api/scheme/current"

// Store implements ports.DiagramStore against /api/scheme/current
type Store struct {
	endpoint string
	client   *http.Client
}

var _ ports.DiagramStore = (*Store)(nil)

// NewStore creates a client for the server at baseURL
func NewStore(baseURL string, client *http.Client) (*Store, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Store{endpoint: u.String() + schemePath, client: client}, nil
}

// Load fetches the current diagram
func (s *Store) Load(ctx context.Context) (*domain.Diagram, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scheme: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent, http.StatusNotFound:
		return nil, nil
	default:
		return nil, statusError("fetch", resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read scheme: %w", err)
	}
	return domain.DecodeDiagram(data)
}

// Save posts the diagram
func (s *Store) Save(ctx context.Context, d *domain.Diagram) error {
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode scheme: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to save scheme: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return statusError("save", resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func statusError(op string, resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("failed to %s scheme: %s: %s", op, resp.Status, strings.TrimSpace(string(msg)))
}
