package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/masterdesk/api/internal/client"
	"github.com/masterdesk/api/internal/model"
)

const uploadURLTTL = 15 * time.Minute

// UploadService hands out direct-upload URLs and accepts multipart
// uploads of source audio.
type UploadService struct {
	storage client.StorageClient
}

// NewUploadService creates an upload service over object storage.
func NewUploadService(storage client.StorageClient) *UploadService {
	return &UploadService{
		storage: storage,
	}
}

// CreateUploadURL issues a short-lived write URL so the client can push
// source audio straight to storage without routing bytes through the API.
func (s *UploadService) CreateUploadURL(ctx context.Context) (*model.UploadURLResponse, error) {
	key := fmt.Sprintf("sources/%s.wav", uuid.New().String())
	expiresAt := time.Now().Add(uploadURLTTL)

	// Use mock response if storage is not configured
	if s.storage == nil {
		return &model.UploadURLResponse{
			UploadURL: fmt.Sprintf("https://cdn.masterdesk.dev/%s", key),
			Key:       key,
			ExpiresAt: expiresAt,
		}, nil
	}

	uploadURL, err := s.storage.PresignUpload(ctx, key, "audio/wav", uploadURLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload URL: %w", err)
	}

	return &model.UploadURLResponse{
		UploadURL: uploadURL,
		Key:       key,
		ExpiresAt: expiresAt,
	}, nil
}

// UploadAudio stores a source file pushed through the API directly.
func (s *UploadService) UploadAudio(ctx context.Context, file io.Reader, size int64) (*model.UploadAudioResponse, error) {
	key := fmt.Sprintf("sources/%s.wav", uuid.New().String())

	if s.storage == nil {
		return &model.UploadAudioResponse{
			Key:       key,
			FileURL:   fmt.Sprintf("https://cdn.masterdesk.dev/%s", key),
			Size:      size,
			CreatedAt: time.Now(),
		}, nil
	}

	fileURL, err := s.storage.Upload(ctx, key, file, "audio/wav")
	if err != nil {
		return nil, fmt.Errorf("failed to upload audio: %w", err)
	}

	return &model.UploadAudioResponse{
		Key:       key,
		FileURL:   fileURL,
		Size:      size,
		CreatedAt: time.Now(),
	}, nil
}
