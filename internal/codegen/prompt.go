package codegen

import (
	"fmt"
	"strings"

	"Minerva_1.0/internal/models"
)

// systemPrompt assembles the generation instructions: the chart-plan grammar,
// the semantics of significant columns, the advisory chart-kind policy and the
// output contract. The contract is enforced by instruction text; the sandbox
// degrades, not rejects, partially compliant scripts.
func (g *Generator) systemPrompt(ds *models.Dataset) string {
	var sb strings.Builder

	sb.WriteString(`You are a Data Visualization Architect. Your task is to write a short chart-plan script that aggregates the dataset and describes one chart answering the user's request.

SCRIPT LANGUAGE (the only operations available):
  df                                   the input dataset
  df.groupby("col")                    group rows by a column
    .count("Id")                       rows per group
    .sum("col") / .mean("col")         aggregate a numeric column per group
    .reset_index("Name")               rename the aggregate result column
  df.resample("timeCol", "month")      bucket a timestamp column (day|week|month|year), then .count(...)
  df.filter("col", "==", value)        keep matching rows (==, !=, >, <, >=, <=, contains)
  df.sort("col") / df.sort("col", "desc")
  df.head(n)                           first n rows
  bar(data, x="col", y="col", title="...")      bar chart
  line(data, x="col", y="col", title="...")     line chart
  scatter(data, x="col", y="col", title="...")  scatter chart
  pie(data, names="col", values="col", title="...")  pie chart
One statement per line, each an assignment "name = expression". Strings take single or double quotes.
`)

	if hints := g.columnHints(ds); hints != "" {
		sb.WriteString("\nCOLUMN DESCRIPTIONS (Context):\n")
		sb.WriteString(hints)
	}

	sb.WriteString(`
INSTRUCTIONS:
1. Analyze the User's Request to determine the Best Chart Type.
   - Trends/Time -> Line Chart (x = the timestamp column, resampled)
   - Comparison/Counts -> Bar Chart
   - Proportions -> Pie Chart
2. STRICTLY NO HALLUCINATIONS. You must derive 'plot_data' by aggregating df with the operations above (groupby, count, sum, mean, resample). Never invent values and never pass the raw df to a chart.
3. OUTPUT FORMAT: Return ONLY a valid script defining exactly these 3 variables:
   - chart_type (string): e.g. "bar", "line", "pie".
   - plot_data (dataset): the aggregated data used for the plot.
   - fig (chart object): the final visualization built from plot_data.
`)
	if g.cfg.Language != "" {
		sb.WriteString(fmt.Sprintf("4. LANGUAGE: All chart titles and labels MUST be in %s.\n", g.cfg.Language))
	} else {
		sb.WriteString("4. LANGUAGE: All chart titles and labels MUST be in the language of the User Request.\n")
	}
	sb.WriteString(`5. Do not use formatting like ** or markdown blocks.

Example Logic:
# User asks: "Show observations by Division"
chart_type = "bar"
plot_data = df.groupby("Division").count("Id").reset_index("Count")
fig = bar(plot_data, x="Division", y="Count", title="Observations by division")
`)
	return sb.String()
}

// userMessage embeds the literal query, the live schema and a small sample of
// real rows, giving the model ground truth instead of letting it guess.
func (g *Generator) userMessage(query string, ds *models.Dataset) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("User Request: %q\n\n", query))
	sb.WriteString("Data Structure:\n")
	sb.WriteString(ds.DTypes())
	sb.WriteString("\nData Sample:\n")
	sb.WriteString(ds.Head(g.cfg.SampleRows).Markdown())
	sb.WriteString("\nGenerate the chart-plan script now:")
	return sb.String()
}

// columnHints renders the configured hints for columns actually present.
func (g *Generator) columnHints(ds *models.Dataset) string {
	var sb strings.Builder
	for _, h := range g.cfg.ColumnHints {
		if !ds.HasColumn(h.Name) {
			continue
		}
		sb.WriteString(fmt.Sprintf("- %s: %s\n", h.Name, h.Description))
	}
	return sb.String()
}
