package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"Minerva_1.0/internal/models"
)

const namingSystemPrompt = `You are a data analyst. Your task is to name clusters of short texts.

I will provide samples of text from different clusters.
For each cluster, generate a VERY SHORT (2-4 words) descriptive name in the language of the samples.
The name should summarize the common theme.

Output format MUST be a JSON object where keys are "Cluster 0", "Cluster 1", etc., and values are the names.
Example:
{
    "Cluster 0": "Slips and falls",
    "Cluster 1": "Missing protective gear"
}`

// nameClusters asks the LLM for a short human-readable label per cluster id.
// Clusters missing from the response get a generic "Group N" label and
// malformed keys are skipped; a failed call falls back to generic labels for
// every cluster. The returned map always covers ids 0..k-1.
func (e *Enricher) nameClusters(ctx context.Context, texts []string, assign []int, k int) map[int]string {
	names := make(map[int]string, k)

	resp, err := e.llm.Generate(ctx, &models.GenerateRequest{
		System:       namingSystemPrompt,
		User:         "Here are the samples:\n\n" + clusterSamples(texts, assign, k, e.cfg.SamplesPerCluster),
		Temperature:  e.cfg.NamingTemperature,
		JSONResponse: true,
	})
	if err != nil {
		e.log.WithError(models.ErrorInfo{Message: err.Error(), Type: "upstream_error"}).
			Warn("Cluster naming failed, using generic names")
	} else {
		var raw map[string]string
		if err := json.Unmarshal([]byte(stripFences(resp)), &raw); err != nil {
			e.log.WithError(models.ErrorInfo{Message: err.Error()}).
				Warn("Cluster naming response was not valid JSON, using generic names")
		} else {
			for key, name := range raw {
				id, ok := parseClusterKey(key)
				if !ok || id < 0 || id >= k {
					continue
				}
				names[id] = name
			}
		}
	}

	// Fill in any missing clusters with generic names.
	for i := 0; i < k; i++ {
		if _, ok := names[i]; !ok {
			names[i] = fmt.Sprintf("Group %d", i+1)
		}
	}
	return names
}

// clusterSamples renders up to n sample texts per cluster for the naming prompt.
func clusterSamples(texts []string, assign []int, k, n int) string {
	var sb strings.Builder
	for c := 0; c < k; c++ {
		sb.WriteString(fmt.Sprintf("Cluster %d:\n", c))
		count := 0
		for i, a := range assign {
			if a != c {
				continue
			}
			sb.WriteString("- " + texts[i] + "\n")
			count++
			if count >= n {
				break
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// parseClusterKey extracts the integer id from a "Cluster N" key.
func parseClusterKey(key string) (int, bool) {
	fields := strings.Fields(strings.TrimSpace(key))
	if len(fields) == 0 {
		return 0, false
	}
	id, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// stripFences removes markdown code fences some models wrap around JSON.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
