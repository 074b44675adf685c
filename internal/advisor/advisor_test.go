package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"smashcost-backend/internal/models"
	"smashcost-backend/internal/pricing"

	"github.com/tmc/langchaingo/llms"
)

func smashRequest() pricing.AnalysisRequest {
	return pricing.AnalysisRequest{
		ProductID: "smash",
		Name:      "SMASH",
		Ingredients: []pricing.AnalysisIngredient{
			{ID: "1", Name: "Pain", QuantityLabel: "1 unité", Cost: 0.53},
			{ID: "2", Name: "Steak", QuantityLabel: "2 boules", Cost: 1.04},
		},
		SellingPrices: models.SellingPrices{Single: 8.90, Menu: 12.90, Student: 9.90},
	}
}

func TestRemoteAnalyzerSendsSummary(t *testing.T) {
	var got pricing.AnalysisRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"profitability":"Bonne marge","suggestions":["a","b","c"],"score":82}`))
	}))
	defer srv.Close()

	a := New(&RemoteAnalyzer{Endpoint: srv.URL, APIKey: "k", Timeout: 2 * time.Second}, 5*time.Second)
	res := a.Analyze(context.Background(), smashRequest())

	if res.Profitability != "Bonne marge" || len(res.Suggestions) != 3 || res.Score != 82 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if got.ProductID != "smash" || len(got.Ingredients) != 2 || got.Ingredients[1].Cost != 1.04 {
		t.Fatalf("unexpected request: %+v", got)
	}
	if auth != "Bearer k" {
		t.Fatalf("authorization = %q", auth)
	}
}

func TestRemoteAnalyzerDefaultsAndClamp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"score":140}`))
	}))
	defer srv.Close()

	res := New(&RemoteAnalyzer{Endpoint: srv.URL, Timeout: time.Second}, 0).Analyze(context.Background(), smashRequest())
	if res.Profitability != unavailable || res.Suggestions == nil || len(res.Suggestions) != 0 || res.Score != 100 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestFailuresReturnPlaceholder(t *testing.T) {
	serverError := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer serverError.Close()

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	}))
	defer garbage.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(`{"score":50}`))
	}))
	defer slow.Close()

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	downURL := down.URL
	down.Close()

	cases := map[string]*Advisor{
		"server error": New(&RemoteAnalyzer{Endpoint: serverError.URL, Timeout: time.Second}, 0),
		"bad json":     New(&RemoteAnalyzer{Endpoint: garbage.URL, Timeout: time.Second}, 0),
		"timeout":      New(&RemoteAnalyzer{Endpoint: slow.URL, Timeout: 5 * time.Second}, 100*time.Millisecond),
		"unreachable":  New(&RemoteAnalyzer{Endpoint: downURL, Timeout: time.Second}, 0),
		"no backend":   New(nil, 0),
	}

	want := Placeholder()
	for name, a := range cases {
		t.Run(name, func(t *testing.T) {
			start := time.Now()
			res := a.Analyze(context.Background(), smashRequest())
			if res.Profitability != want.Profitability || res.Score != 0 || len(res.Suggestions) != 2 {
				t.Fatalf("result = %+v, want placeholder", res)
			}
			if time.Since(start) > 3*time.Second {
				t.Fatalf("analysis took %v", time.Since(start))
			}
		})
	}
}

type fakeModel struct {
	answer string
	err    error
	prompt string
}

func (f *fakeModel) GenerateContent(ctx context.Context, msgs []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, m := range msgs {
		for _, part := range m.Parts {
			if text, ok := part.(llms.TextContent); ok {
				f.prompt = text.Text
			}
		}
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.answer}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, opts...)
}

func TestLLMAnalyzer(t *testing.T) {
	model := &fakeModel{answer: "```json\n{\"profitability\":\"Marge saine\",\"suggestions\":[\"x\"],\"score\":75}\n```"}
	a := New(&LLMAnalyzer{Model: model, Policy: pricing.DefaultPolicy()}, time.Second)

	res := a.Analyze(context.Background(), smashRequest())
	if res.Profitability != "Marge saine" || res.Score != 75 || len(res.Suggestions) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	for _, want := range []string{"Product: SMASH", "Total Cost (HT): 1.57 €", "Selling Price (HT - adjusted for 10% VAT): 8.09 €", "target food cost is 30% of HT price"} {
		if !strings.Contains(model.prompt, want) {
			t.Fatalf("prompt misses %q:\n%s", want, model.prompt)
		}
	}

	failing := New(&LLMAnalyzer{Model: &fakeModel{err: errors.New("quota")}, Policy: pricing.DefaultPolicy()}, time.Second)
	if res := failing.Analyze(context.Background(), smashRequest()); res.Score != 0 || res.Profitability != Placeholder().Profitability {
		t.Fatalf("model error must give the placeholder: %+v", res)
	}
}
