// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"sync"
	"time"

	"roast-panel-service/internal/domain"
	"roast-panel-service/internal/domain/model"
)

// ---- Fakes ----

// fakeGenerator scripts replies, errors and delays per completion identity.
type fakeGenerator struct {
	mu      sync.Mutex
	replies map[string]string
	errs    map[string]error
	delays  map[string]time.Duration
	prompts map[string][]string
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{
		replies: map[string]string{},
		errs:    map[string]error{},
		delays:  map[string]time.Duration{},
		prompts: map[string][]string{},
	}
}

func (f *fakeGenerator) Generate(ctx context.Context, completionID, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts[completionID] = append(f.prompts[completionID], prompt)
	delay := f.delays[completionID]
	reply, ok := f.replies[completionID]
	err := f.errs[completionID]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
	if err != nil {
		return "", err
	}
	if !ok {
		reply = "roast for " + completionID
	}
	return reply, nil
}

func (f *fakeGenerator) promptsFor(completionID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts[completionID]...)
}

type fakeSpeech struct {
	mu    sync.Mutex
	calls int
	errBy map[string]error // keyed by voice id
}

func (f *fakeSpeech) Synthesize(ctx context.Context, text, voiceID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.errBy != nil {
		if err := f.errBy[voiceID]; err != nil {
			return "", err
		}
	}
	return "/tmp/" + voiceID + ".mp3", nil
}

type fakeHost struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeHost) Upload(ctx context.Context, localPath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.example.com" + localPath, nil
}

type fakeTranscriber struct {
	mu    sync.Mutex
	calls int
	text  string
	err   error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, videoURL string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeTranscriber) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// memCache is a map-backed TranscriptCache.
type memCache struct {
	mu    sync.Mutex
	store map[string]string
}

func newMemCache() *memCache { return &memCache{store: map[string]string{}} }

func (m *memCache) Get(ctx context.Context, videoURL string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.store[videoURL]; ok {
		return v, nil
	}
	return "", domain.ErrNotFound
}

func (m *memCache) Store(ctx context.Context, videoURL, transcript string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[videoURL] = transcript
	return nil
}

// memRunRepo captures saved runs.
type memRunRepo struct {
	mu   sync.Mutex
	runs []*model.RoastRun
}

func (m *memRunRepo) Save(ctx context.Context, run *model.RoastRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *memRunRepo) ListRecent(ctx context.Context, limit int) ([]*model.RoastRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.RoastRun(nil), m.runs...), nil
}

func (m *memRunRepo) last() *model.RoastRun {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.runs) == 0 {
		return nil
	}
	return m.runs[len(m.runs)-1]
}
