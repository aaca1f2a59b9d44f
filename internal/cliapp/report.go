package cliapp

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	coreapp "cminify/internal/core/app"
	"cminify/internal/data/history"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)

	reportStyle = lipgloss.NewStyle().
			MarginLeft(2)
)

func percent(part, whole int) string {
	if whole == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(part)/float64(whole))
}

func renderSummary(out *coreapp.Outcome, irPath, minifiedPath string, verbose bool) string {
	stats := out.Result.Stats
	var b strings.Builder

	b.WriteString(titleStyle.Render("cminify") + " " + out.SourcePath + "\n")
	b.WriteString(fmt.Sprintf("  %s %d -> %d bytes (%s)\n",
		successStyle.Render("minified"), stats.SourceBytes, stats.MinifiedBytes, percent(stats.MinifiedBytes, stats.SourceBytes)))
	b.WriteString(fmt.Sprintf("  renamed %d symbols across %d structs and %d functions\n",
		stats.RenamedSymbols, stats.Structs, stats.Functions))
	b.WriteString(fmt.Sprintf("  ir       %s\n", irPath))
	b.WriteString(fmt.Sprintf("  output   %s\n", minifiedPath))

	notes := []string{fmt.Sprintf("took %s", out.Duration.Round(time.Microsecond))}
	if out.Cached {
		notes = append(notes, "unchanged source, cached result")
	}
	if out.Result.Formatted {
		notes = append(notes, "ir formatted")
	}
	if out.RunID != "" {
		notes = append(notes, "run "+out.RunID)
	}
	b.WriteString("  " + statusStyle.Render(strings.Join(notes, ", ")) + "\n")

	if verbose && out.Result.Report != nil {
		b.WriteString("\n" + titleStyle.Render("Symbols") + "\n")
		b.WriteString(reportStyle.Render(strings.TrimRight(out.Result.Report.String(), "\n")) + "\n")
	}
	return b.String()
}

func renderError(err error) string {
	return errorStyle.Render("error") + " " + err.Error() + "\n"
}

func renderHistory(source string, runs []history.Run) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Recent runs") + " " + source + "\n")
	if len(runs) == 0 {
		b.WriteString("  " + statusStyle.Render("no runs recorded") + "\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("  %-20s %8s %8s %7s %8s %s\n", "TIME", "SOURCE", "OUTPUT", "RATIO", "RENAMED", "NOTE"))
	for _, r := range runs {
		note := ""
		if r.Cached {
			note = "cached"
		}
		b.WriteString(fmt.Sprintf("  %-20s %8d %8d %7s %8d %s\n",
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.SourceBytes,
			r.MinifiedBytes,
			percent(r.MinifiedBytes, r.SourceBytes),
			r.RenamedSymbols,
			note,
		))
	}
	return b.String()
}
