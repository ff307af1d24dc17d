package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"Minerva_1.0/internal/models"
)

// UnclassifiedLabel is the fixed fallback label applied when no keyword
// matches and the rule declares no catch-all category.
const UnclassifiedLabel = "unclassified"

// Category is one labeled keyword set inside a classification rule.
// An empty keyword list marks the category as the declared catch-all.
type Category struct {
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
}

// RuleColumn describes one derived column: an ordered list of categories
// evaluated per row. Order matters: the first matching category wins.
type RuleColumn struct {
	Name       string     `json:"name"`
	Categories []Category `json:"categories"`
}

// RuleSpec is the full rule set the LLM proposes for a dataset.
type RuleSpec struct {
	Columns []RuleColumn `json:"columns"`
}

// Classify assigns exactly one label to the given text: the first category
// with a case-insensitive keyword substring match wins, the declared
// catch-all (empty keyword list) applies when nothing matched, and the
// literal "unclassified" label applies when there is no catch-all either.
func (rc RuleColumn) Classify(text string) string {
	lower := strings.ToLower(text)
	catchAll := ""
	haveCatchAll := false
	for _, cat := range rc.Categories {
		if len(cat.Keywords) == 0 {
			if !haveCatchAll {
				catchAll = cat.Label
				haveCatchAll = true
			}
			continue
		}
		for _, kw := range cat.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(kw)) {
				return cat.Label
			}
		}
	}
	if haveCatchAll {
		return catchAll
	}
	return UnclassifiedLabel
}

const rulesSystemPrompt = `You are a data analyst. Your task is to design keyword classification rules for a column of short texts, so the texts can be grouped to answer the user's question.

Propose one or more derived columns. For each column give an ORDERED list of categories; each category has a label and a list of lowercase keywords. A text is assigned the FIRST category whose keyword appears in it (case-insensitive substring match). You may add one final category with an empty keyword list as the catch-all for unmatched texts.

Output format MUST be a JSON object of this exact shape:
{
  "columns": [
    {
      "name": "Severity",
      "categories": [
        {"label": "High", "keywords": ["fire", "injury"]},
        {"label": "Low", "keywords": ["near miss"]},
        {"label": "Other", "keywords": []}
      ]
    }
  ]
}`

// induceRules sends the text column and the user's question to the LLM and
// parses the proposed rule set. Category order is preserved by using arrays
// rather than JSON objects, keeping first-match-wins deterministic.
func (e *Enricher) induceRules(ctx context.Context, texts []string, query string) (*RuleSpec, error) {
	var sb strings.Builder
	sb.WriteString("User question: " + query + "\n\nTexts:\n")
	for _, t := range texts {
		sb.WriteString("- " + t + "\n")
	}

	resp, err := e.llm.Generate(ctx, &models.GenerateRequest{
		System:       rulesSystemPrompt,
		User:         sb.String(),
		Temperature:  0,
		JSONResponse: true,
	})
	if err != nil {
		return nil, err
	}

	var spec RuleSpec
	if err := json.Unmarshal([]byte(stripFences(resp)), &spec); err != nil {
		return nil, fmt.Errorf("rule spec was not valid JSON: %w", err)
	}
	if len(spec.Columns) == 0 {
		return nil, fmt.Errorf("rule spec declared no columns")
	}
	for _, col := range spec.Columns {
		if col.Name == "" {
			return nil, fmt.Errorf("rule spec contains a column without a name")
		}
	}
	return &spec, nil
}
