package timer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"focusdock/internal/models"
)

// HTTPSink posts completed sessions to the dashboard API (POST /sessions)
// with a bearer session token. The server resolves the owner from the token.
type HTTPSink struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHTTPSink(baseURL, token string) *HTTPSink {
	return &HTTPSink{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *HTTPSink) Record(ctx context.Context, rec models.SessionRecord) error {
	payload, err := json.Marshal(map[string]interface{}{
		"type":     rec.Type,
		"duration": rec.Duration,
		"date":     rec.Date,
		"time":     rec.Time,
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/sessions", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post session: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("post session: unexpected status %d", resp.StatusCode)
	}
	return nil
}
