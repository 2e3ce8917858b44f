package model

import "time"

// UploadURLResponse carries a short-lived direct-upload URL
type UploadURLResponse struct {
	UploadURL string    `json:"uploadUrl"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UploadAudioResponse represents a completed direct upload
type UploadAudioResponse struct {
	Key       string    `json:"key"`
	FileURL   string    `json:"fileUrl"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}
