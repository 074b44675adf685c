package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"smashcost-backend/internal/pricing"

	"github.com/gofiber/fiber/v2"
)

// RemoteAnalyzer posts the summary to an HTTP endpoint that answers with
// {profitability, suggestions, score}.
type RemoteAnalyzer struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

func (r *RemoteAnalyzer) Analyze(ctx context.Context, req pricing.AnalysisRequest) (Result, error) {
	timeout := r.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return Result{}, context.DeadlineExceeded
	}

	agent := fiber.Post(r.Endpoint)
	agent.JSON(req).Timeout(timeout)
	if r.APIKey != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+r.APIKey)
	}
	if err := agent.Parse(); err != nil {
		return Result{}, fmt.Errorf("prepare analysis request: %w", err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return Result{}, fmt.Errorf("analysis request: %w", errors.Join(errs...))
	}
	if code < 200 || code >= 300 {
		return Result{}, fmt.Errorf("analysis service answered %d", code)
	}

	var raw rawResult
	if err := json.Unmarshal(body, &raw); err != nil {
		return Result{}, fmt.Errorf("decode analysis: %w", err)
	}
	return raw.result(), nil
}
