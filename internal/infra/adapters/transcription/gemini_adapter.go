package transcription

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"

	"roast-panel-service/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.Transcriber = (*GeminiAdapter)(nil)

const transcribePrompt = "Transcribe the spoken audio of this video verbatim. Return only the transcript text."

// GeminiAdapter transcribes by handing the video bytes to a multimodal model
// with a transcription instruction. Alternate provider behind the same port.
type GeminiAdapter struct {
	client     *genai.Client
	model      string
	scratchDir string
	downloader *http.Client
}

func NewGeminiAdapter(ctx context.Context, apiKey, model, scratchDir string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("transcription: gemini api key empty")
	}
	if model == "" || strings.HasPrefix(model, "whisper") {
		model = "gemini-2.0-flash"
	}
	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{
		client:     c,
		model:      model,
		scratchDir: scratchDir,
		downloader: &http.Client{Timeout: 5 * time.Minute},
	}, nil
}

func (g *GeminiAdapter) Transcribe(ctx context.Context, videoURL string) (string, error) {
	path, err := fetchVideo(ctx, g.downloader, videoURL, g.scratchDir)
	if err != nil {
		return "", fmt.Errorf("download video: %w", err)
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	parts := []*genai.Part{
		genai.NewPartFromBytes(data, "video/mp4"),
		genai.NewPartFromText(transcribePrompt),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("gemini returned empty transcript")
	}
	return text, nil
}
