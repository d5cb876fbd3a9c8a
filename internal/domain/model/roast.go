package model

import "time"

// RoastRequest is the inbound payload. VideoURL takes precedence over
// Transcript when both are present.
type RoastRequest struct {
	Transcript string `json:"transcript,omitempty"`
	VideoURL   string `json:"videoUrl,omitempty"`
}

// Empty reports whether there is nothing to work with. An empty request is a
// success case that yields an empty panel, not an error.
func (r RoastRequest) Empty() bool {
	return r.Transcript == "" && r.VideoURL == ""
}

// RoastResult is one persona's fully rendered response. It exists only when
// every pipeline stage for that persona succeeded.
type RoastResult struct {
	Panel     string `json:"panel"`
	Roast     string `json:"roast"`
	AudioURL  string `json:"audioUrl"`
	Thumbnail string `json:"thumbnail"`
}

// RoastRunSource marks how the input text was obtained.
type RoastRunSource string

const (
	RoastSourceTranscript RoastRunSource = "transcript"
	RoastSourceVideo      RoastRunSource = "video"
)

// RoastRun is the historical record of one /roast request: what went in and
// which panelists made it out. Persisted best-effort when a database is
// configured.
type RoastRun struct {
	ID         string
	Source     RoastRunSource
	Transcript string
	PanelSize  int
	Succeeded  int
	Results    []RoastResult
	CreatedAt  time.Time
}
