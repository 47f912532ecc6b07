package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"powergest/services"
)

// SheetsClient mirrors mutations into the Google Apps Script web app that
// backs the shared spreadsheet.
type SheetsClient struct {
	url     string
	client  *http.Client
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewSheetsClient(url string) *SheetsClient {
	return &SheetsClient{
		url:     url,
		client:  &http.Client{Timeout: 10 * time.Second},
		timeout: 15 * time.Second,
	}
}

type scriptResponse struct {
	Error string `json:"error"`
}

// Call posts {action, ...payload} to the script. The script answers 200
// even on failure, so the body's error field is checked too.
func (s *SheetsClient) Call(ctx context.Context, action string, payload any) error {
	body := map[string]any{}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return fmt.Errorf("payload for %s is not an object: %w", action, err)
		}
	}
	body["action"] = action

	requestBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewBuffer(requestBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send %s: %w", action, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sheets %s: status %d: %s", action, resp.StatusCode, respBody)
	}

	var out scriptResponse
	if json.Unmarshal(respBody, &out) == nil && out.Error != "" {
		return fmt.Errorf("sheets %s: %s", action, out.Error)
	}
	return nil
}

// Action maps a change to the script action name, e.g. createCompra.
// Stock changes are derived and not mirrored.
func Action(ch services.Change) (string, bool) {
	switch ch.Entity {
	case services.EntityCompra, services.EntityVenta:
	default:
		return "", false
	}
	switch ch.Action {
	case services.ActionCreate, services.ActionUpdate, services.ActionDelete:
	default:
		return "", false
	}
	return ch.Action + strings.ToUpper(ch.Entity[:1]) + ch.Entity[1:], true
}

// OnChange sends the change in the background. Failures are logged only.
func (s *SheetsClient) OnChange(_ context.Context, ch services.Change) {
	action, ok := Action(ch)
	if !ok {
		return
	}

	var payload any = ch.Record
	if ch.Action == services.ActionDelete {
		payload = map[string]string{"id": ch.ID}
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.Call(ctx, action, payload); err != nil {
			log.Warn().Err(err).Str("action", action).Str("id", ch.ID).Msg("sheet mirror failed")
		}
	}()
}

// Wait blocks until in-flight mirror calls finish.
func (s *SheetsClient) Wait() {
	s.wg.Wait()
}
