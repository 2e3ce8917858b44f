package service

import (
	"context"

	"github.com/masterdesk/api/internal/client"
	"github.com/masterdesk/api/internal/engine"
	"github.com/masterdesk/api/internal/model"
)

// AnalysisService measures source audio via the engine's analyze mode.
type AnalysisService struct {
	engine  *engine.Engine
	storage client.StorageClient
}

func NewAnalysisService(eng *engine.Engine, storage client.StorageClient) *AnalysisService {
	return &AnalysisService{
		engine:  eng,
		storage: storage,
	}
}

// Analyze resolves the source reference and runs a synchronous
// measurement pass. Analysis is short-lived, so no job is created.
func (s *AnalysisService) Analyze(ctx context.Context, req *model.AnalyzeRequest) (*model.AnalyzeResponse, error) {
	input, cleanup, err := resolveSource(ctx, s.storage, req.SourceReference)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	metrics, err := s.engine.Analyze(ctx, input)
	if err != nil {
		return nil, err
	}

	return &model.AnalyzeResponse{Metrics: *metrics}, nil
}
