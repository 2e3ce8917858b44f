package model

import "time"

// AudioMetrics holds measured loudness figures for a piece of audio.
// Individual fields are nullable because the engine cannot always
// measure every one of them.
type AudioMetrics struct {
	LUFS       *float64 `json:"lufs"`
	TruePeak   *float64 `json:"truePeak"`
	Crest      *float64 `json:"crest"`
	SampleRate *float64 `json:"sampleRate,omitempty"`
	BitDepth   *string  `json:"bitDepth,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// OutputArtifact locates the rendered master produced by a completed job.
type OutputArtifact struct {
	URL       string     `json:"url"`
	Key       string     `json:"key,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// MasteringJob represents one asynchronous mastering request.
// Once terminal, exactly one of {FinalMetrics+Output, Error} is populated.
type MasteringJob struct {
	ID              string              `json:"id"`
	Status          JobStatus           `json:"status"`
	SourceReference string              `json:"sourceReference"`
	Parameters      MasteringParameters `json:"parameters"`
	FinalMetrics    *AudioMetrics       `json:"finalMetrics,omitempty"`
	Output          *OutputArtifact     `json:"outputReference,omitempty"`
	Error           *string             `json:"error,omitempty"`
	Diagnostics     string              `json:"diagnostics,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// Progress derives a coarse completion indicator from the job status.
// It is computed on read and never persisted.
func (j *MasteringJob) Progress() float64 {
	switch j.Status {
	case JobStatusQueued:
		return 0.2
	case JobStatusProcessing:
		return 0.6
	default:
		return 1.0
	}
}
