package script

// Template is one of the fixed UGC script shapes offered in the wizard's
// script step. Placeholders use {name} syntax and are filled by Engine.
type Template struct {
	ID   string
	Name string
	Text string
}

const (
	TemplateReview          = "review"
	TemplateUnboxing        = "unboxing"
	TemplateProblemSolution = "problem-solution"
	TemplateTestimonial     = "testimonial"
)

var templates = []Template{
	{
		ID:   TemplateReview,
		Name: "Product Review",
		Text: `I've been using {product} for a few weeks now, and honestly... it's been a game-changer!

The thing I love most is how {benefit}. It really makes a difference in my daily routine.

If you're someone who {target_audience}, this is definitely worth checking out. I wish I found it sooner!

Link's in bio if you want to grab one for yourself.`,
	},
	{
		ID:   TemplateUnboxing,
		Name: "Unboxing Experience",
		Text: `Okay, so my {product} just arrived and I HAD to share this with you guys!

Look at this packaging... {packaging_reaction}

Let me show you what's inside... {unboxing_content}

First impressions? This quality is insane for the price. Stay tuned for my full review!`,
	},
	{
		ID:   TemplateProblemSolution,
		Name: "Problem & Solution",
		Text: `If you're struggling with {problem}, you NEED to see this.

I used to deal with this ALL the time. It was so frustrating.

But then I found {product}. {solution_description}

Now? Problem solved. And it only took {timeframe}.

Drop a 🔥 if this helped!`,
	},
	{
		ID:   TemplateTestimonial,
		Name: "Testimonial",
		Text: `So I've been using {product} for {timeframe} now...

And I have to be honest - I was skeptical at first.

But {results}? This actually works!

{specific_benefit}

If you're on the fence, just try it. You can thank me later 😉`,
	},
}

// Templates returns the catalog in presentation order.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// Find returns the template with the given id.
func Find(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}
