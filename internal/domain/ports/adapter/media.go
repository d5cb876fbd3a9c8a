package adapter

import "context"

// SpeechSynthesizer renders text in a given voice and returns the path of the
// local audio artifact. Each call produces a fresh, collision-free path; the
// caller owns cleanup.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) (localPath string, err error)
}

// ArtifactHost uploads a local artifact and returns a durable public URL.
type ArtifactHost interface {
	Upload(ctx context.Context, localPath string) (publicURL string, err error)
}

// Transcriber resolves a remote video reference to plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, videoURL string) (text string, err error)
}
