package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"evently/internal/domain"
)

// SecretHeader carries the shared secret expected by the revalidation endpoint.
const SecretHeader = "X-Revalidate-Secret"

type httpRevalidator struct {
	client   *http.Client
	endpoint string
	secret   string
}

// NewHTTPRevalidator returns a PathRevalidator that POSTs {"path": ...} to
// endpoint. An empty endpoint yields a revalidator that does nothing.
func NewHTTPRevalidator(client *http.Client, endpoint, secret string) domain.PathRevalidator {
	if endpoint == "" {
		return noopRevalidator{}
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &httpRevalidator{client: client, endpoint: endpoint, secret: secret}
}

type revalidateRequest struct {
	Path string `json:"path"`
}

func (r *httpRevalidator) Revalidate(ctx context.Context, path string) error {
	body, err := json.Marshal(revalidateRequest{Path: path})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.secret != "" {
		req.Header.Set(SecretHeader, r.secret)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call revalidate endpoint: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("revalidate endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}

type noopRevalidator struct{}

func (noopRevalidator) Revalidate(context.Context, string) error { return nil }
