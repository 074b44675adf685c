// Package advisor asks an external service for a profitability critique of a
// product. The service is optional: every failure degrades to a placeholder.
package advisor

import (
	"context"
	"log"
	"math"
	"time"

	"smashcost-backend/internal/pricing"
)

const unavailable = "Analyse indisponible"

// Result - critique returned to the client
type Result struct {
	Profitability string   `json:"profitability"`
	Suggestions   []string `json:"suggestions"`
	Score         int      `json:"score"`
}

// Analyzer talks to one analysis backend.
type Analyzer interface {
	Analyze(ctx context.Context, req pricing.AnalysisRequest) (Result, error)
}

// Placeholder is returned whenever the analysis cannot be obtained.
func Placeholder() Result {
	return Result{
		Profitability: "Erreur de connexion",
		Suggestions:   []string{"Vérifiez votre connexion internet", "Réessayez plus tard"},
		Score:         0,
	}
}

// rawResult keeps track of fields missing from an answer.
type rawResult struct {
	Profitability *string  `json:"profitability"`
	Suggestions   []string `json:"suggestions"`
	Score         *float64 `json:"score"`
}

// result fills missing fields and clamps the score to 0..100.
func (r rawResult) result() Result {
	out := Result{Profitability: unavailable, Suggestions: []string{}}
	if r.Profitability != nil && *r.Profitability != "" {
		out.Profitability = *r.Profitability
	}
	if r.Suggestions != nil {
		out.Suggestions = r.Suggestions
	}
	if r.Score != nil && !math.IsNaN(*r.Score) {
		out.Score = int(math.Round(math.Max(0, math.Min(100, *r.Score))))
	}
	return out
}

// Advisor never fails: it returns the placeholder when the backend is missing,
// slow or broken.
type Advisor struct {
	analyzer Analyzer
	timeout  time.Duration
}

func New(analyzer Analyzer, timeout time.Duration) *Advisor {
	return &Advisor{analyzer: analyzer, timeout: timeout}
}

func (a *Advisor) Analyze(ctx context.Context, req pricing.AnalysisRequest) Result {
	if a == nil || a.analyzer == nil {
		return Placeholder()
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	res, err := a.analyzer.Analyze(ctx, req)
	if err != nil {
		log.Printf("[WARN] analysis of %s failed: %v", req.ProductID, err)
		return Placeholder()
	}
	return res
}
