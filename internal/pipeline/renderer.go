package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/psethzp/rosti/internal/model"
)

// Renderer writes review reports as JSON artifacts, markdown documents
// and terminal summaries
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full report to path as indented JSON.
func (r *Renderer) RenderJSON(report *model.ReviewReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report document to path.
func (r *Renderer) RenderMarkdown(report *model.ReviewReport, path string) error {
	if err := os.WriteFile(path, []byte(r.Markdown(report)), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Markdown renders the report document.
func (r *Renderer) Markdown(report *model.ReviewReport) string {
	var b strings.Builder

	b.WriteString("# Evidence Review\n\n")
	fmt.Fprintf(&b, "- **Run**: `%s`\n", report.RunID)
	if report.ClaimsPath != "" {
		fmt.Fprintf(&b, "- **Claims file**: `%s`\n", report.ClaimsPath)
	}
	fmt.Fprintf(&b, "- **Reviewed**: %s\n\n", report.ReviewedAt.Format(time.RFC3339))

	s := report.Summary
	b.WriteString("## Summary\n\n")
	b.WriteString("| Claims | Spans | Supported | Weak | Contradicted | Degraded |\n")
	b.WriteString("|-------:|------:|----------:|-----:|-------------:|---------:|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d | %d |\n\n",
		s.Claims, s.Spans, s.Supported, s.Weak, s.Contradicted, s.Degraded)
	fmt.Fprintf(&b, "Resolution: %d structural, %d keyword, %d oracle.\n\n",
		s.ResolvedTier1, s.ResolvedTier2, s.ResolvedTier3)

	b.WriteString("## Claims\n\n")
	for _, claim := range report.Claims {
		conf := 0.0
		if claim.Confidence != nil {
			conf = *claim.Confidence
		}
		fmt.Fprintf(&b, "### %s: %s (%.2f)\n\n", claim.ID, claim.Verdict, conf)
		fmt.Fprintf(&b, "> %s\n\n", claim.Text)
		if claim.ReviewerNotes != "" {
			fmt.Fprintf(&b, "%s\n\n", claim.ReviewerNotes)
		}

		if len(claim.Spans) > 0 {
			b.WriteString("| Span | Verdict | Confidence | Tier | Reason |\n")
			b.WriteString("|------|---------|-----------:|------|--------|\n")
			for _, sr := range claim.Spans {
				tier := sr.Result.TierReached.String()
				if sr.Result.Degraded {
					tier += " (degraded)"
				}
				fmt.Fprintf(&b, "| %s | %s | %.2f | %s | %s |\n",
					escapeCell(sr.Span.Identity()), sr.Result.Verdict,
					sr.Result.Confidence, tier, escapeCell(sr.Result.Reason))
			}
			b.WriteString("\n")
		}
	}

	if r.includeFooter {
		fmt.Fprintf(&b, "---\n\nGenerated by rosti, run `%s`.\n", report.RunID)
	}

	return b.String()
}

// RenderSummary prints a terminal summary of the run.
func (r *Renderer) RenderSummary(report *model.ReviewReport) {
	s := report.Summary
	line := strings.Repeat("═", 47)

	fmt.Println()
	fmt.Println(line)
	fmt.Println("  Evidence Review")
	fmt.Println(line)
	fmt.Printf("  Claims reviewed:  %d\n", s.Claims)
	fmt.Printf("  Spans checked:    %d\n", s.Spans)
	fmt.Printf("  Supported:        %d\n", s.Supported)
	fmt.Printf("  Weak:             %d\n", s.Weak)
	fmt.Printf("  Contradicted:     %d\n", s.Contradicted)
	fmt.Printf("  Tier resolution:  %d structural / %d keyword / %d oracle\n",
		s.ResolvedTier1, s.ResolvedTier2, s.ResolvedTier3)
	if s.Degraded > 0 {
		fmt.Printf("  Degraded spans:   %d (oracle unavailable)\n", s.Degraded)
	}
	fmt.Println(line)
}

// escapeCell makes free text safe inside a markdown table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
