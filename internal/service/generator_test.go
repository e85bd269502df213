package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"support-widget/internal/apperr"
	"support-widget/internal/models"
)

// scriptedProvider fails until its script runs out, then succeeds.
type scriptedProvider struct {
	name    string
	errs    []error
	answer  string
	calls   int
	prompts []string
}

func (p *scriptedProvider) Name() string { return p.name }

func (p *scriptedProvider) Complete(_ context.Context, prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	p.calls++
	if p.calls <= len(p.errs) {
		return "", p.errs[p.calls-1]
	}
	return p.answer, nil
}

func retryableErr(name string) error {
	return &ProviderError{Provider: name, StatusCode: 503, Retryable: true, Err: errors.New("overloaded")}
}

func fastConfig() GeneratorConfig {
	return GeneratorConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
}

func testProduct() models.NormalizedProduct {
	return models.NormalizedProduct{
		ID:          123,
		SKU:         "TV-55",
		Title:       "55-inch OLED TV",
		Name:        "55-inch OLED TV",
		Description: "A great TV.",
		Price:       499.99,
		Currency:    "USD",
		Brand:       "Acme",
		Category:    "TV",
		InStock:     true,
	}
}

func TestGeneratePrimarySuccess(t *testing.T) {
	primary := &scriptedProvider{name: "openai", answer: "It costs $499.99."}
	fallback := &scriptedProvider{name: "gemini", answer: "unused"}
	g := NewAnswerGenerator([]Provider{primary, fallback}, fastConfig())

	answer, err := g.Generate(context.Background(), "What is the price?", testProduct())
	require.NoError(t, err)
	assert.Equal(t, "It costs $499.99.", answer)
	assert.Equal(t, 1, primary.calls)
	assert.Zero(t, fallback.calls)
}

func TestGeneratePromptGroundsProductFacts(t *testing.T) {
	primary := &scriptedProvider{name: "openai", answer: "ok"}
	g := NewAnswerGenerator([]Provider{primary}, fastConfig())

	_, err := g.Generate(context.Background(), "What is the price?", testProduct())
	require.NoError(t, err)
	require.Len(t, primary.prompts, 1)
	prompt := primary.prompts[0]
	assert.Contains(t, prompt, "55-inch OLED TV")
	assert.Contains(t, prompt, "499.99")
	assert.Contains(t, prompt, "TV-55")
	assert.Contains(t, prompt, "In stock")
	assert.Contains(t, prompt, "What is the price?")
	assert.Contains(t, prompt, "Sorry, this information is not available for the product.")
}

func TestGenerateFallsThroughOnAnyPrimaryError(t *testing.T) {
	// A non-retryable primary failure still falls through to the fallback.
	primary := &scriptedProvider{name: "openai", errs: []error{
		&ProviderError{Provider: "openai", StatusCode: 401, Retryable: false, Err: errors.New("bad key")},
	}}
	fallback := &scriptedProvider{name: "gemini", answer: "from gemini"}
	g := NewAnswerGenerator([]Provider{primary, fallback}, fastConfig())

	answer, err := g.Generate(context.Background(), "q", testProduct())
	require.NoError(t, err)
	assert.Equal(t, "from gemini", answer)
	assert.Equal(t, 1, primary.calls, "primary gets exactly one attempt")
	assert.Equal(t, 1, fallback.calls)
}

func TestGenerateRetriesFallbackWithBudget(t *testing.T) {
	primary := &scriptedProvider{name: "openai", errs: []error{retryableErr("openai")}}
	fallback := &scriptedProvider{name: "gemini", errs: []error{retryableErr("gemini"), retryableErr("gemini")}, answer: "third time lucky"}
	g := NewAnswerGenerator([]Provider{primary, fallback}, fastConfig())

	answer, err := g.Generate(context.Background(), "q", testProduct())
	require.NoError(t, err)
	assert.Equal(t, "third time lucky", answer)
	assert.Equal(t, 3, fallback.calls)
}

func TestGenerateExhaustionIsAIServiceUnavailable(t *testing.T) {
	primary := &scriptedProvider{name: "openai", errs: []error{retryableErr("openai")}}
	fallback := &scriptedProvider{name: "gemini", errs: []error{
		retryableErr("gemini"), retryableErr("gemini"), retryableErr("gemini"), retryableErr("gemini"),
	}}
	g := NewAnswerGenerator([]Provider{primary, fallback}, fastConfig())

	_, err := g.Generate(context.Background(), "q", testProduct())
	require.Error(t, err)
	assert.Equal(t, apperr.KindAIUnavailable, apperr.KindOf(err), "never a raw provider error")
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 3, fallback.calls, "fails only after the full retry budget")
}

func TestGenerateNonRetryableFallbackAborts(t *testing.T) {
	primary := &scriptedProvider{name: "openai", errs: []error{retryableErr("openai")}}
	fallback := &scriptedProvider{name: "gemini", errs: []error{
		&ProviderError{Provider: "gemini", StatusCode: 400, Retryable: false, Err: errors.New("bad request")},
	}}
	g := NewAnswerGenerator([]Provider{primary, fallback}, fastConfig())

	_, err := g.Generate(context.Background(), "q", testProduct())
	require.Error(t, err)
	assert.Equal(t, apperr.KindAIUnavailable, apperr.KindOf(err))
	assert.Equal(t, 1, fallback.calls, "non-retryable errors are not retried")
}

func TestGenerateNoProvidersConfigured(t *testing.T) {
	g := NewAnswerGenerator(nil, fastConfig())
	_, err := g.Generate(context.Background(), "q", testProduct())
	require.Error(t, err)
	assert.Equal(t, apperr.KindAIUnavailable, apperr.KindOf(err))
}
