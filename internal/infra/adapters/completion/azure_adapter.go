package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"roast-panel-service/internal/domain/model"
	"roast-panel-service/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.CompletionAdapter = (*AzureAdapter)(nil)

// AzureAdapter speaks the Azure OpenAI assistants wire protocol:
// threads are sessions, runs are generation jobs. Auth is the api-key
// header plus an api-version query parameter on every call.
type AzureAdapter struct {
	endpoint   string // e.g. https://sample.openai.azure.com
	apiKey     string
	apiVersion string
	client     *http.Client
}

func NewAzureAdapter(endpoint, apiKey, apiVersion string) (*AzureAdapter, error) {
	if endpoint == "" {
		return nil, errors.New("azure endpoint empty")
	}
	if apiKey == "" {
		return nil, errors.New("azure api key empty")
	}
	if apiVersion == "" {
		apiVersion = "2024-05-01-preview"
	}
	return &AzureAdapter{
		endpoint:   endpoint,
		apiKey:     apiKey,
		apiVersion: apiVersion,
		client:     &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (a *AzureAdapter) CreateSession(ctx context.Context) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := a.do(ctx, http.MethodPost, "/openai/threads", nil, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (a *AzureAdapter) PostMessage(ctx context.Context, sessionID, text string) (string, error) {
	body := struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}{Role: "user", Content: text}

	var out struct {
		ID string `json:"id"`
	}
	path := "/openai/threads/" + sessionID + "/messages"
	if err := a.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (a *AzureAdapter) StartJob(ctx context.Context, sessionID, completionID string) (string, error) {
	body := struct {
		AssistantID string `json:"assistant_id"`
	}{AssistantID: completionID}

	var out struct {
		ID string `json:"id"`
	}
	path := "/openai/threads/" + sessionID + "/runs"
	if err := a.do(ctx, http.MethodPost, path, body, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (a *AzureAdapter) JobStatus(ctx context.Context, sessionID, jobID string) (model.JobStatus, error) {
	var out struct {
		Status string `json:"status"`
	}
	path := "/openai/threads/" + sessionID + "/runs/" + jobID
	if err := a.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return "", err
	}
	return mapStatus(out.Status), nil
}

func (a *AzureAdapter) ListMessages(ctx context.Context, sessionID string) ([]adapter.SessionMessage, error) {
	// The service returns history newest-first, which is exactly the order
	// the port promises.
	var out struct {
		Data []struct {
			ID      string `json:"id"`
			Role    string `json:"role"`
			Content []struct {
				Type string `json:"type"`
				Text struct {
					Value string `json:"value"`
				} `json:"text"`
			} `json:"content"`
		} `json:"data"`
	}
	path := "/openai/threads/" + sessionID + "/messages"
	if err := a.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}

	msgs := make([]adapter.SessionMessage, 0, len(out.Data))
	for _, m := range out.Data {
		sm := adapter.SessionMessage{ID: m.ID, Role: m.Role}
		for _, c := range m.Content {
			sm.Segments = append(sm.Segments, adapter.Segment{Type: c.Type, Text: c.Text.Value})
		}
		msgs = append(msgs, sm)
	}
	return msgs, nil
}

func (a *AzureAdapter) do(ctx context.Context, method, path string, body, out any) error {
	u := a.endpoint + path + "?api-version=" + url.QueryEscape(a.apiVersion)

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("api-key", a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("completion service http %d on %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// mapStatus folds service status strings onto the domain vocabulary. Unknown
// strings count as still-running so polling keeps going until the caller's
// deadline fires.
func mapStatus(s string) model.JobStatus {
	switch s {
	case "queued":
		return model.JobStatusQueued
	case "completed":
		return model.JobStatusCompleted
	case "failed":
		return model.JobStatusFailed
	case "cancelled":
		return model.JobStatusCancelled
	case "expired":
		return model.JobStatusExpired
	default:
		return model.JobStatusInProgress
	}
}
