// Package report renders homework summaries as markdown.
package report

import (
	"fmt"
	"strings"
	"time"

	"snailfish/internal/homework"
)

// Markdown renders s as a markdown document.
func Markdown(s *homework.Summary) string {
	var sb strings.Builder

	title := s.Source
	if title == "" {
		title = "homework"
	}
	fmt.Fprintf(&sb, "# Snailfish homework: %s\n\n", title)
	fmt.Fprintf(&sb, "Run `%s`, %d numbers, %v.\n\n", s.RunID, len(s.Lines), s.Duration.Round(time.Microsecond))

	sb.WriteString("## Result\n\n")
	fmt.Fprintf(&sb, "- **Final sum magnitude:** %d\n", s.Magnitude)
	if s.HasBest {
		fmt.Fprintf(&sb, "- **Largest pair magnitude:** %d (line %d + line %d)\n", s.Best.Magnitude, s.Best.I, s.Best.J)
	}
	sb.WriteString("\n")
	if s.Final != nil {
		sb.WriteString("```\n")
		sb.WriteString(s.Final.String())
		sb.WriteString("\n```\n\n")
	}

	sb.WriteString("## Numbers\n\n")
	sb.WriteString("| Line | Reduced | Magnitude |\n")
	sb.WriteString("|---:|---|---:|\n")
	for _, l := range s.Lines {
		fmt.Fprintf(&sb, "| %d | `%s` | %d |\n", l.Number, l.Reduced, l.Magnitude)
	}

	if len(s.Skipped) > 0 {
		sb.WriteString("\n## Skipped lines\n\n")
		for _, le := range s.Skipped {
			fmt.Fprintf(&sb, "- line %d: %v\n", le.Line, le.Err)
		}
	}
	return sb.String()
}
