package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wandermate/go-trip-planner/app/observability/metrics"
)

// generateJSON prompts the content generator and unmarshals the cleaned JSON
// response into out, retrying malformed or failed responses up to the
// configured count before surfacing a collaborator failure.
func (s *ServiceImpl) generateJSON(ctx context.Context, prompt string, out any) error {
	var lastErr error
	for attempt := 1; attempt <= s.opts.GenerationRetries; attempt++ {
		metrics.Get().GenerationRequestsTotal.Add(ctx, 1)
		txt, err := s.generator.GenerateContent(ctx, prompt, s.genConfig())
		if err != nil {
			metrics.Get().GenerationErrorsTotal.Add(ctx, 1)
			lastErr = err
			s.logger.WarnContext(ctx, "Content generation failed, retrying",
				slog.Int("attempt", attempt), slog.Any("error", err))
			continue
		}
		if err := json.Unmarshal([]byte(cleanJSONResponse(txt)), out); err != nil {
			metrics.Get().GenerationErrorsTotal.Add(ctx, 1)
			lastErr = fmt.Errorf("failed to parse structured response: %w", err)
			s.logger.WarnContext(ctx, "Unparseable structured response, retrying",
				slog.Int("attempt", attempt), slog.Any("error", err))
			continue
		}
		return nil
	}
	return fmt.Errorf("content generation failed after %d attempts: %w", s.opts.GenerationRetries, lastErr)
}

// cleanJSONResponse strips markdown fences and surrounding prose so the JSON
// object inside a model response can be unmarshalled.
func cleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(strings.TrimSpace(response), "```")
	response = strings.TrimSpace(response)

	firstBrace := strings.Index(response, "{")
	if firstBrace == -1 {
		return response
	}
	lastBrace := strings.LastIndex(response, "}")
	if lastBrace == -1 || lastBrace <= firstBrace {
		return response
	}
	return strings.TrimSpace(response[firstBrace : lastBrace+1])
}
