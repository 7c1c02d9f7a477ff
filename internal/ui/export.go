package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/thesavant42/quakewatch/internal/models"
)

// DefaultExportName returns "quakes-2006-01-02.md" for now
func DefaultExportName(now time.Time) string {
	return fmt.Sprintf("quakes-%s.md", now.Format("2006-01-02"))
}

// GenerateQuakeMarkdown renders the list as a markdown document
func GenerateQuakeMarkdown(rows []QuakeRow, f models.Filter, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Recent Earthquakes\n\n")
	sb.WriteString(fmt.Sprintf("**Order By:** %s\n", f.OrderBy))
	sb.WriteString(fmt.Sprintf("**Minimum Magnitude:** %s\n", f.MinMagnitude))
	sb.WriteString(fmt.Sprintf("**Limit:** %s\n", f.Limit))
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", now.Format("2006-01-02 15:04:05")))

	if len(rows) == 0 {
		sb.WriteString(MessageNoEarthquakes + "\n")
		return sb.String()
	}

	sb.WriteString("| Mag | Offset | Location | Date | Time | Details |\n")
	sb.WriteString("|-----|--------|----------|------|------|---------|\n")
	for _, r := range rows {
		details := "-"
		if r.URL != "" {
			details = fmt.Sprintf("[%s](%s)", SourceDomain(r.URL), r.URL)
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
			r.Magnitude, escapeMarkdownCell(r.Offset), escapeMarkdownCell(r.Primary), r.Date, r.Time, details))
	}

	return sb.String()
}

func escapeMarkdownCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// ExportQuakesToMarkdown writes the list to path, or to DefaultExportName
// when path is empty. Returns the filename written.
func ExportQuakesToMarkdown(rows []QuakeRow, f models.Filter, path string, now time.Time) (string, error) {
	if path == "" {
		path = DefaultExportName(now)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".md") {
		path += ".md"
	}

	if err := os.WriteFile(path, []byte(GenerateQuakeMarkdown(rows, f, now)), 0644); err != nil {
		return "", fmt.Errorf("failed to write markdown file: %w", err)
	}
	return path, nil
}
