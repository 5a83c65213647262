package domain

import "time"

// ProgressStatus is the state carried by a progress event.
type ProgressStatus string

const (
	// StatusProcessing marks an in-flight per-page update.
	StatusProcessing ProgressStatus = "PROCESSING"

	// StatusFinished marks the terminal event of a run, successful or not.
	StatusFinished ProgressStatus = "FINISHED"
)

// ProgressEvent describes cumulative indexing progress for a connection.
// Events are pushed to an external stream; the pipeline never reads them
// back. JSON field names match the stream's wire format.
type ProgressEvent struct {
	ConnectionID string `json:"connectionId"`

	// FileName is the document being processed, empty on events published
	// before any document was reached.
	FileName string `json:"fileName"`

	// ProcessedFiles is the number of documents touched so far in this run.
	ProcessedFiles int `json:"processedFile"`

	// ProcessedPages is cumulative across runs: it is seeded from the pages
	// already indexed for the connection so observers see a continuous count.
	ProcessedPages int `json:"processedPage"`

	// Timestamp is the run's start time.
	Timestamp time.Time `json:"lastAsync"`

	// ErrorMessage is set on terminal events when the run failed. It is the
	// only error surface exposed to observers.
	ErrorMessage string `json:"errorMessage,omitempty"`

	Status ProgressStatus `json:"status"`
}
