package model

// JobStatus is the completion service's view of an asynchronous generation
// job. Transitions happen on the service side; the pipeline only observes
// them through polling.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelled  JobStatus = "cancelled"
	JobStatusExpired    JobStatus = "expired"
)

// Succeeded reports terminal success.
func (s JobStatus) Succeeded() bool { return s == JobStatusCompleted }

// Terminal reports whether further polling is pointless.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled, JobStatusExpired:
		return true
	}
	return false
}
