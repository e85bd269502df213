package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"support-widget/internal/apperr"
	"support-widget/internal/models"
)

const (
	defaultMaxAttempts    = 3
	defaultInitialBackoff = 1 * time.Second
	defaultMaxBackoff     = 30 * time.Second
)

// GeneratorConfig tunes the per-provider retry policy. Zero values select the
// defaults. The budget applies to fallback providers only; the primary always
// gets a single attempt.
type GeneratorConfig struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// AnswerGenerator produces a grounded natural-language answer for a user
// query about one product.
type AnswerGenerator interface {
	Generate(ctx context.Context, query string, product models.NormalizedProduct) (string, error)
}

type answerGenerator struct {
	providers []Provider
	cfg       GeneratorConfig
}

// NewAnswerGenerator wires the ordered provider list. The first provider is
// the primary; any later ones are fallbacks.
func NewAnswerGenerator(providers []Provider, cfg GeneratorConfig) AnswerGenerator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = defaultInitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaultMaxBackoff
	}
	return &answerGenerator{providers: providers, cfg: cfg}
}

// Generate walks the provider list in order. The primary gets one attempt and
// any failure falls through to the next provider. Fallback providers get the
// configured attempt budget with exponential backoff, retrying only retryable
// errors; a non-retryable provider rejection aborts generation outright.
func (g *answerGenerator) Generate(ctx context.Context, query string, product models.NormalizedProduct) (string, error) {
	if len(g.providers) == 0 {
		return "", apperr.New(apperr.KindAIUnavailable, "no answer providers configured")
	}

	prompt := buildPrompt(query, product)
	var lastErr error

	for i, prov := range g.providers {
		attempts := g.cfg.MaxAttempts
		if i == 0 {
			attempts = 1
		}

		for attempt := 0; attempt < attempts; attempt++ {
			if attempt > 0 {
				backoff := g.backoff(attempt - 1)
				log.Printf("[Generator] %s attempt %d/%d failed, retrying in %v", prov.Name(), attempt, attempts, backoff)
				select {
				case <-ctx.Done():
					return "", apperr.Wrap(apperr.KindAIUnavailable, "answer generation cancelled", ctx.Err())
				case <-time.After(backoff):
				}
			}

			text, err := prov.Complete(ctx, prompt)
			if err == nil {
				return strings.TrimSpace(text), nil
			}
			lastErr = err
			log.Printf("[Generator] provider %s failed: %v", prov.Name(), err)

			// The primary's failure is absorbed: control falls through to
			// the fallback regardless of what went wrong.
			if i == 0 {
				break
			}

			var perr *ProviderError
			if errors.As(err, &perr) && !perr.Retryable {
				return "", apperr.Wrap(apperr.KindAIUnavailable,
					fmt.Sprintf("answer generation rejected by %s", prov.Name()), err)
			}
		}
	}

	return "", apperr.Wrap(apperr.KindAIUnavailable,
		"the assistant is temporarily unavailable, please try again shortly", lastErr)
}

// backoff doubles from InitialBackoff, capped at MaxBackoff.
func (g *answerGenerator) backoff(retry int) time.Duration {
	d := g.cfg.InitialBackoff << retry
	if d > g.cfg.MaxBackoff || d <= 0 {
		return g.cfg.MaxBackoff
	}
	return d
}

// buildPrompt embeds the product facts into the fixed grounding instructions.
func buildPrompt(query string, p models.NormalizedProduct) string {
	name := p.Title
	if name == "" {
		name = p.Name
	}
	stock := "Out of stock"
	if p.InStock {
		stock = "In stock"
	}

	var b strings.Builder
	b.WriteString(`You are an AI assistant for an e-commerce website. Your task is to provide clear and relevant answers based on the given product details.

### Instructions:
1. Answer concisely based only on the product details provided.
2. If the requested detail is missing, say: "Sorry, this information is not available for the product."
3. Avoid raw data dumps—only provide direct human-readable responses.
4. If the question is unrelated to the product, say: "I can only provide product-related information."

---

### Product Information:
`)
	fmt.Fprintf(&b, "Name: %s\n", name)
	fmt.Fprintf(&b, "SKU: %s\n", p.SKU)
	fmt.Fprintf(&b, "Brand: %s\n", p.Brand)
	fmt.Fprintf(&b, "Category: %s\n", p.Category)
	fmt.Fprintf(&b, "Price: %.2f %s\n", p.Price, p.Currency)
	fmt.Fprintf(&b, "Availability: %s\n", stock)
	fmt.Fprintf(&b, "Description: %s\n", p.Description)

	b.WriteString("\n---\n\n### User Query:\n")
	b.WriteString(query)
	b.WriteString("\n\n### AI Response:\n")
	return b.String()
}
