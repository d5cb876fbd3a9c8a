package transcription

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"roast-panel-service/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.Transcriber = (*WhisperAdapter)(nil)

// WhisperAdapter downloads the video and runs it through the Whisper
// transcription endpoint via the official SDK.
type WhisperAdapter struct {
	client     openai.Client
	model      string
	scratchDir string
	downloader *http.Client
}

func NewWhisperAdapter(apiKey, model, scratchDir string) (*WhisperAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("transcription: openai api key empty")
	}
	if model == "" {
		model = "whisper-1"
	}
	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &WhisperAdapter{
		client:     openai.NewClient(option.WithAPIKey(apiKey)),
		model:      model,
		scratchDir: scratchDir,
		downloader: &http.Client{Timeout: 5 * time.Minute},
	}, nil
}

func (w *WhisperAdapter) Transcribe(ctx context.Context, videoURL string) (string, error) {
	path, err := fetchVideo(ctx, w.downloader, videoURL, w.scratchDir)
	if err != nil {
		return "", fmt.Errorf("download video: %w", err)
	}
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	resp, err := w.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(w.model),
		File:  openai.File(f, filepath.Base(path), "video/mp4"),
	})
	if err != nil {
		return "", fmt.Errorf("whisper: %w", err)
	}
	if resp.Text == "" {
		return "", errors.New("whisper returned empty transcript")
	}
	return resp.Text, nil
}
