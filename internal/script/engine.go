package script

import (
	"context"
	"strings"
	"time"
)

// MaxCharacters is the advisory script length limit shown in the editor. It is
// reported, not enforced; the backend applies its own limits.
const MaxCharacters = 1000

// MinCharacters is the shortest script the wizard accepts for generation.
const MinCharacters = 10

// DefaultDelay simulates the latency of an AI generation call.
const DefaultDelay = 1500 * time.Millisecond

// Inputs are the product facts the generator derives filler text from.
type Inputs struct {
	ProductName        string
	ProductDescription string
}

// Engine produces scripts by substituting placeholder tokens in a fixed
// template. Output is fully deterministic for identical inputs; the only
// nondeterminism is the artificial delay.
type Engine struct {
	delay time.Duration
}

// NewEngine builds an engine with the given simulated latency. A negative
// delay is treated as zero.
func NewEngine(delay time.Duration) *Engine {
	if delay < 0 {
		delay = 0
	}
	return &Engine{delay: delay}
}

// Generate renders the template with the given id. Unknown ids fall back to
// the review template. The call blocks for the configured delay unless the
// context is canceled first.
func (e *Engine) Generate(ctx context.Context, templateID string, in Inputs) (string, error) {
	if e.delay > 0 {
		timer := time.NewTimer(e.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	template, ok := Find(templateID)
	if !ok {
		template = templates[0]
	}
	return substitute(template.Text, in), nil
}

// substitute replaces each placeholder's first occurrence in a fixed order so
// the same inputs always yield the same script.
func substitute(text string, in Inputs) string {
	product := strings.TrimSpace(in.ProductName)
	if product == "" {
		product = "this product"
	}
	benefit := truncateRunes(strings.TrimSpace(in.ProductDescription), 50)
	if benefit == "" {
		benefit = "it saves time"
	}

	replacements := []struct {
		token string
		value string
	}{
		{"{product}", product},
		{"{benefit}", benefit},
		{"{target_audience}", "wants to level up their life"},
		{"{problem}", "this common issue"},
		{"{solution_description}", "It completely changed how I approach this."},
		{"{timeframe}", "just 2 weeks"},
		{"{results}", "the results speak for themselves"},
		{"{specific_benefit}", "The best part? It's super easy to use."},
		{"{packaging_reaction}", "so premium!"},
		{"{unboxing_content}", "Wow, look at these details!"},
	}

	for _, r := range replacements {
		text = strings.Replace(text, r.token, r.value, 1)
	}
	return text
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
