package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"smashcost-backend/internal/pricing"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// LLMAnalyzer builds the consultant prompt itself and asks a language model
// for a JSON answer.
type LLMAnalyzer struct {
	Model  llms.Model
	Policy pricing.Policy
}

// NewOpenAIAnalyzer connects to an OpenAI compatible API. baseURL may be empty.
func NewOpenAIAnalyzer(apiKey, model, baseURL string, pol pricing.Policy) (*LLMAnalyzer, error) {
	opts := []openai.Option{openai.WithToken(apiKey)}
	if model != "" {
		opts = append(opts, openai.WithModel(model))
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}
	return &LLMAnalyzer{Model: llm, Policy: pol}, nil
}

func (a *LLMAnalyzer) Analyze(ctx context.Context, req pricing.AnalysisRequest) (Result, error) {
	prompt, err := BuildPrompt(req, a.Policy)
	if err != nil {
		return Result{}, err
	}

	text, err := llms.GenerateFromSinglePrompt(ctx, a.Model, prompt, llms.WithJSONMode(), llms.WithTemperature(0.4))
	if err != nil {
		return Result{}, fmt.Errorf("generate analysis: %w", err)
	}

	var raw rawResult
	if err := json.Unmarshal([]byte(extractJSON(text)), &raw); err != nil {
		return Result{}, fmt.Errorf("decode analysis: %w", err)
	}
	return raw.result(), nil
}

// BuildPrompt describes the single-burger sheet the way a consultant would read it.
func BuildPrompt(req pricing.AnalysisRequest, pol pricing.Policy) (string, error) {
	ingredients, err := json.Marshal(req.Ingredients)
	if err != nil {
		return "", fmt.Errorf("encode ingredients: %w", err)
	}

	total := 0.0
	for _, ing := range req.Ingredients {
		total += ing.Cost
	}
	priceTTC := req.SellingPrices.Single
	priceHT := 0.0
	if pol.TVARate > 0 {
		priceHT = priceTTC / pol.TVARate
	}
	ratio := 0.0
	if priceHT > 0 {
		ratio = total / priceHT * 100
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Act as a restaurant financial consultant. Analyze this burger cost sheet:\n")
	fmt.Fprintf(&b, "Product: %s\n", req.Name)
	fmt.Fprintf(&b, "Ingredients Cost (HT): %s\n", ingredients)
	fmt.Fprintf(&b, "Total Cost (HT): %.2f €\n", total)
	fmt.Fprintf(&b, "Selling Price (TTC): %.2f €\n", priceTTC)
	fmt.Fprintf(&b, "Selling Price (HT - adjusted for %.0f%% VAT): %.2f €\n", (pol.TVARate-1)*100, priceHT)
	fmt.Fprintf(&b, "Margin (HT): %.2f €\n", priceHT-total)
	fmt.Fprintf(&b, "Food Cost Ratio (on HT price): %.1f%%\n\n", ratio)
	fmt.Fprintf(&b, "Provide a brief analysis in French (JSON format).\n")
	fmt.Fprintf(&b, "1. 'profitability': A short sentence about the margin health (target food cost is %.0f%% of HT price).\n", pol.TargetFoodCostRatio*100)
	fmt.Fprintf(&b, "2. 'suggestions': An array of 3 specific, actionable tips to improve margin without ruining quality.\n")
	fmt.Fprintf(&b, "3. 'score': An integer 0-100 rating the financial health of this item.\n")
	return b.String(), nil
}

// extractJSON strips a markdown fence some models wrap around JSON answers.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return text
	}
	return text[start : end+1]
}
