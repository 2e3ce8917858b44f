package model

import "time"

// MasterJobRequest represents the request to start a mastering job
type MasterJobRequest struct {
	SourceReference string              `json:"sourceReference" validate:"required"`
	Parameters      MasteringParameters `json:"parameters" validate:"required"`
}

// MasterJobResponse represents the response when a job is accepted
type MasterJobResponse struct {
	JobID  string    `json:"jobId"`
	Status JobStatus `json:"status"`
}

// JobStatusResponse is the full job snapshot returned by the polling endpoint
type JobStatusResponse struct {
	JobID           string          `json:"jobId"`
	Status          JobStatus       `json:"status"`
	Progress        float64         `json:"progress"`
	SourceReference string          `json:"sourceReference"`
	FinalMetrics    *AudioMetrics   `json:"finalMetrics,omitempty"`
	Output          *OutputArtifact `json:"outputReference,omitempty"`
	Error           *string         `json:"error,omitempty"`
	Diagnostics     string          `json:"diagnostics,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// TargetMetrics is the loudness target the caller wants to reach
type TargetMetrics struct {
	LUFS     float64 `json:"lufs" validate:"required,min=-36,max=0"`
	TruePeak float64 `json:"truePeak" validate:"max=0"`
}

// GenerateParamsRequest represents the request for parameter generation
type GenerateParamsRequest struct {
	Platform         Platform      `json:"platform" validate:"required,oneof=streaming club broadcast video"`
	CurrentMetrics   AudioMetrics  `json:"currentMetrics" validate:"required"`
	TargetMetrics    TargetMetrics `json:"targetMetrics" validate:"required"`
	PromptSupplement string        `json:"promptSupplement" validate:"omitempty,max=500"`
}

// GenerateParamsResponse carries the parameters plus how they were obtained,
// so the client can decide whether to trust a fallback result.
type GenerateParamsResponse struct {
	Parameters MasteringParameters `json:"parameters"`
	Source     ParamsSource        `json:"source"`
}

// AnalyzeRequest represents the request to measure a source file
type AnalyzeRequest struct {
	SourceReference string `json:"sourceReference" validate:"required"`
}

// AnalyzeResponse carries measured metrics for a source file
type AnalyzeResponse struct {
	Metrics AudioMetrics `json:"metrics"`
}
