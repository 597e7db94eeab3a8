package script_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"genvid/internal/script"
)

func TestGenerateIsDeterministic(t *testing.T) {
	engine := script.NewEngine(0)
	in := script.Inputs{ProductName: "Earbuds", ProductDescription: "Noise canceling earbuds with 30h battery life"}

	first, err := engine.Generate(context.Background(), script.TemplateReview, in)
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}
	second, err := engine.Generate(context.Background(), script.TemplateReview, in)
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if first != second {
		t.Fatal("identical inputs must yield byte-identical output")
	}
}

func TestGenerateSubstitutesProductAndBenefit(t *testing.T) {
	engine := script.NewEngine(0)
	longDescription := strings.Repeat("x", 60)
	out, err := engine.Generate(context.Background(), script.TemplateReview, script.Inputs{
		ProductName:        "Earbuds",
		ProductDescription: longDescription,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, "Earbuds") {
		t.Fatal("product name not substituted")
	}
	if strings.Contains(out, "{product}") || strings.Contains(out, "{benefit}") {
		t.Fatal("placeholders left in output")
	}
	// The benefit filler truncates the description to 50 characters.
	if strings.Contains(out, longDescription) {
		t.Fatal("description was not truncated")
	}
	if !strings.Contains(out, strings.Repeat("x", 50)) {
		t.Fatal("truncated description missing")
	}
}

func TestGenerateEmptyInputsUseFillers(t *testing.T) {
	engine := script.NewEngine(0)
	out, err := engine.Generate(context.Background(), script.TemplateReview, script.Inputs{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out, "this product") {
		t.Fatal("empty product should fall back to generic filler")
	}
	if !strings.Contains(out, "it saves time") {
		t.Fatal("empty description should fall back to generic benefit")
	}
}

func TestUnknownTemplateFallsBackToReview(t *testing.T) {
	engine := script.NewEngine(0)
	in := script.Inputs{ProductName: "Earbuds"}

	fromUnknown, err := engine.Generate(context.Background(), "does-not-exist", in)
	if err != nil {
		t.Fatalf("generate unknown: %v", err)
	}
	fromReview, err := engine.Generate(context.Background(), script.TemplateReview, in)
	if err != nil {
		t.Fatalf("generate review: %v", err)
	}
	if fromUnknown != fromReview {
		t.Fatal("unknown template id must render the review template")
	}
}

func TestEveryTemplateRendersWithoutPlaceholders(t *testing.T) {
	engine := script.NewEngine(0)
	in := script.Inputs{ProductName: "Earbuds", ProductDescription: "Tiny but mighty"}

	for _, template := range script.Templates() {
		out, err := engine.Generate(context.Background(), template.ID, in)
		if err != nil {
			t.Fatalf("generate %s: %v", template.ID, err)
		}
		if strings.Contains(out, "{") && strings.Contains(out, "}") {
			t.Fatalf("template %s left a placeholder: %s", template.ID, out)
		}
	}
}

func TestGenerateHonorsContextCancellation(t *testing.T) {
	engine := script.NewEngine(5 * time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := engine.Generate(ctx, script.TemplateReview, script.Inputs{})
	if err == nil {
		t.Fatal("expected context error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("cancellation took too long: %v", elapsed)
	}
}
