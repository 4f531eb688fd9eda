// Package render turns generated recipe markdown into sanitized HTML
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Placeholder is shown when the backend returned no recipe text.
const Placeholder = "No recipe returned."

// NutritionClass marks the wrapper around every nutrition section.
const NutritionClass = "nutrition-section"

var (
	sectionHeading   = regexp.MustCompile(`^##\s`)
	nutritionHeading = regexp.MustCompile(`(?i)^##\s*nutrition`)
	unspacedHeading  = regexp.MustCompile(`^##([^\s#])`)
	fenceLine        = regexp.MustCompile("^\\s*(```|~~~)")
)

// RecipeRenderer converts recipe markdown to HTML safe for direct embedding
type RecipeRenderer struct {
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewRecipeRenderer creates a renderer with GitHub flavoured markdown
func NewRecipeRenderer() *RecipeRenderer {
	return &RecipeRenderer{
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   newRecipePolicy(),
	}
}

func newRecipePolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(regexp.MustCompile("^" + NutritionClass + "$")).OnElements("div")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

// Render converts text to HTML. Every "## Nutrition" section, up to the next
// level-two heading, is wrapped in a nutrition-section div. Empty text yields
// the placeholder paragraph.
func (r *RecipeRenderer) Render(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "<p>" + Placeholder + "</p>", nil
	}

	var out bytes.Buffer
	for _, s := range splitSections(text) {
		var buf bytes.Buffer
		if err := r.markdown.Convert([]byte(s.body), &buf); err != nil {
			return "", fmt.Errorf("failed to render recipe markdown: %w", err)
		}
		if s.nutrition {
			out.WriteString(`<div class="` + NutritionClass + `">`)
			out.Write(buf.Bytes())
			out.WriteString("</div>\n")
			continue
		}
		out.Write(buf.Bytes())
	}

	return strings.TrimSpace(r.policy.Sanitize(out.String())), nil
}

type section struct {
	body      string
	nutrition bool
}

// splitSections cuts text at level-two headings outside fenced code blocks.
func splitSections(text string) []section {
	var (
		sections []section
		current  strings.Builder
		nutrient bool
		inFence  bool
	)

	flush := func() {
		if current.Len() > 0 {
			sections = append(sections, section{body: current.String(), nutrition: nutrient})
			current.Reset()
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		if fenceLine.MatchString(line) {
			inFence = !inFence
		}
		if !inFence && (sectionHeading.MatchString(line) || nutritionHeading.MatchString(line)) {
			flush()
			nutrient = nutritionHeading.MatchString(line)
			if nutrient {
				// "##Nutrition" is not a markdown heading without the space
				line = unspacedHeading.ReplaceAllString(line, "## $1")
			}
		}
		current.WriteString(line)
	}
	flush()

	return sections
}
