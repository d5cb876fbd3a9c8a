package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"roast-panel-service/internal/domain/model"
)

// fakeAzure emulates enough of the assistants wire protocol for the adapter.
func fakeAzure(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	check := func(w http.ResponseWriter, r *http.Request) bool {
		if r.Header.Get("api-key") != "secret" {
			t.Errorf("missing api-key header on %s", r.URL.Path)
			w.WriteHeader(http.StatusUnauthorized)
			return false
		}
		if r.URL.Query().Get("api-version") != "2024-05-01-preview" {
			t.Errorf("missing api-version on %s", r.URL.Path)
			w.WriteHeader(http.StatusBadRequest)
			return false
		}
		return true
	}

	mux.HandleFunc("/openai/threads", func(w http.ResponseWriter, r *http.Request) {
		if !check(w, r) {
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "thread_abc"})
	})
	mux.HandleFunc("/openai/threads/thread_abc/messages", func(w http.ResponseWriter, r *http.Request) {
		if !check(w, r) {
			return
		}
		if r.Method == http.MethodPost {
			var body struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			if body.Role != "user" || body.Content != "roast me" {
				t.Errorf("unexpected message body %+v", body)
			}
			json.NewEncoder(w).Encode(map[string]string{"id": "msg_1"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{
					"id":   "msg_2",
					"role": "assistant",
					"content": []map[string]any{
						{"type": "text", "text": map[string]string{"value": "zing"}},
					},
				},
				{
					"id":   "msg_1",
					"role": "user",
					"content": []map[string]any{
						{"type": "text", "text": map[string]string{"value": "roast me"}},
					},
				},
			},
		})
	})
	mux.HandleFunc("/openai/threads/thread_abc/runs", func(w http.ResponseWriter, r *http.Request) {
		if !check(w, r) {
			return
		}
		var body struct {
			AssistantID string `json:"assistant_id"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if body.AssistantID != "asst_1" {
			t.Errorf("unexpected assistant id %q", body.AssistantID)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "run_1", "status": "queued"})
	})
	mux.HandleFunc("/openai/threads/thread_abc/runs/run_1", func(w http.ResponseWriter, r *http.Request) {
		if !check(w, r) {
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "run_1", "status": "in_progress"})
	})

	return httptest.NewServer(mux)
}

func TestAzureAdapter_FullProtocol(t *testing.T) {
	srv := fakeAzure(t)
	defer srv.Close()

	a, err := NewAzureAdapter(srv.URL, "secret", "2024-05-01-preview")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	sessionID, err := a.CreateSession(ctx)
	if err != nil || sessionID != "thread_abc" {
		t.Fatalf("CreateSession = %q, %v", sessionID, err)
	}
	msgID, err := a.PostMessage(ctx, sessionID, "roast me")
	if err != nil || msgID != "msg_1" {
		t.Fatalf("PostMessage = %q, %v", msgID, err)
	}
	jobID, err := a.StartJob(ctx, sessionID, "asst_1")
	if err != nil || jobID != "run_1" {
		t.Fatalf("StartJob = %q, %v", jobID, err)
	}
	status, err := a.JobStatus(ctx, sessionID, jobID)
	if err != nil || status != model.JobStatusInProgress {
		t.Fatalf("JobStatus = %q, %v", status, err)
	}
	msgs, err := a.ListMessages(ctx, sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 || msgs[0].Role != "assistant" {
		t.Fatalf("want newest-first history, got %+v", msgs)
	}
	if msgs[0].Segments[0].Type != "text" || msgs[0].Segments[0].Text != "zing" {
		t.Fatalf("bad segment decode: %+v", msgs[0].Segments)
	}
}

func TestAzureAdapter_HTTPErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a, _ := NewAzureAdapter(srv.URL, "secret", "")
	if _, err := a.CreateSession(context.Background()); err == nil {
		t.Fatal("want error on http 500")
	}
}

func TestMapStatus(t *testing.T) {
	cases := map[string]model.JobStatus{
		"queued":          model.JobStatusQueued,
		"completed":       model.JobStatusCompleted,
		"failed":          model.JobStatusFailed,
		"cancelled":       model.JobStatusCancelled,
		"expired":         model.JobStatusExpired,
		"in_progress":     model.JobStatusInProgress,
		"requires_action": model.JobStatusInProgress, // unknown -> keep polling
	}
	for raw, want := range cases {
		if got := mapStatus(raw); got != want {
			t.Fatalf("mapStatus(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestLimitedCompletion_PassesThrough(t *testing.T) {
	srv := fakeAzure(t)
	defer srv.Close()

	inner, _ := NewAzureAdapter(srv.URL, "secret", "2024-05-01-preview")
	limited := NewLimitedCompletion(inner, 2)

	sessionID, err := limited.CreateSession(context.Background())
	if err != nil || sessionID != "thread_abc" {
		t.Fatalf("limited CreateSession = %q, %v", sessionID, err)
	}
}
