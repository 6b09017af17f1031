package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/replyforge/replyforge/internal/ranker"
	"github.com/replyforge/replyforge/internal/style"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	scoreStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	slotStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	reasonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	starStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// formatCandidate renders the four slots compactly, empty slots dimmed.
func formatCandidate(c style.Candidate) string {
	parts := make([]string, 0, len(style.Kinds))
	for _, k := range style.Kinds {
		id := c.Slot(k)
		if id == "" {
			parts = append(parts, dimStyle.Render("·"))
			continue
		}
		parts = append(parts, slotStyle.Render(id))
	}
	return strings.Join(parts, dimStyle.Render(" + "))
}

// printSuggestions renders a ranked list with scores and reasons.
func printSuggestions(w io.Writer, suggestions []ranker.Suggestion, explain bool) {
	for i, s := range suggestions {
		fmt.Fprintf(w, "%s %s %s\n",
			scoreStyle.Render(fmt.Sprintf("%2d/10", s.Breakdown.Total)),
			dimStyle.Render(fmt.Sprintf("#%d", i+1)),
			formatCandidate(s.Candidate),
		)
		if explain && len(s.Breakdown.Reasons) > 0 {
			fmt.Fprintf(w, "      %s\n", reasonStyle.Render(strings.Join(s.Breakdown.Reasons, "; ")))
		}
	}
}

// suggestionJSON is the --format=json shape for one suggestion.
type suggestionJSON struct {
	Personality  string   `json:"personality,omitempty"`
	Vocabulary   string   `json:"vocabulary,omitempty"`
	Rhetoric     string   `json:"rhetoric,omitempty"`
	LengthPacing string   `json:"length_pacing,omitempty"`
	Total        int      `json:"total"`
	ContextMatch float64  `json:"context_match"`
	UsageScore   float64  `json:"usage_score"`
	Preference   float64  `json:"preference_score"`
	TimeScore    float64  `json:"time_score"`
	Confidence   float64  `json:"confidence"`
	Reasons      []string `json:"reasons,omitempty"`
}

func toSuggestionJSON(s ranker.Suggestion) suggestionJSON {
	return suggestionJSON{
		Personality:  s.Candidate.Personality,
		Vocabulary:   s.Candidate.Vocabulary,
		Rhetoric:     s.Candidate.Rhetoric,
		LengthPacing: s.Candidate.LengthPacing,
		Total:        s.Breakdown.Total,
		ContextMatch: s.Breakdown.ContextMatch,
		UsageScore:   s.Breakdown.UsageScore,
		Preference:   s.Breakdown.PreferenceScore,
		TimeScore:    s.Breakdown.TimeScore,
		Confidence:   s.Breakdown.Confidence,
		Reasons:      s.Breakdown.Reasons,
	}
}
