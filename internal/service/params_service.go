package service

import (
	"context"
	"log"
	"time"

	"github.com/masterdesk/api/internal/client"
	"github.com/masterdesk/api/internal/model"
	"github.com/masterdesk/api/internal/params"
)

// ParamsService obtains mastering parameters, treating generation as a
// best-effort enhancement: when the endpoint is unconfigured or exhausts
// its retries, the caller gets the platform preset instead of an error.
type ParamsService struct {
	llm       client.ChatCompleter
	generator *params.Generator
}

// NewParamsService builds the generation flow around an LLM client.
func NewParamsService(llm client.ChatCompleter, maxAttempts int, baseDelay time.Duration) *ParamsService {
	return &ParamsService{
		llm:       llm,
		generator: params.NewGenerator(llm, maxAttempts, baseDelay),
	}
}

// Generate returns complete parameters plus how they were obtained, so
// the client can decide whether to trust a fallback result.
func (s *ParamsService) Generate(ctx context.Context, req *model.GenerateParamsRequest) *model.GenerateParamsResponse {
	if s.llm == nil || !s.llm.IsConfigured() {
		return s.fallback(req.Platform)
	}

	generated, err := s.generator.Generate(ctx, req)
	if err != nil {
		log.Printf("Parameter generation fell back to preset: %v", err)
		return s.fallback(req.Platform)
	}

	return &model.GenerateParamsResponse{
		Parameters: *generated,
		Source:     model.ParamsSourceGenerated,
	}
}

func (s *ParamsService) fallback(platform model.Platform) *model.GenerateParamsResponse {
	return &model.GenerateParamsResponse{
		Parameters: params.Preset(platform),
		Source:     model.ParamsSourceFallback,
	}
}
