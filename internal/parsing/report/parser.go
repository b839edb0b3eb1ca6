// Package report extracts confirmed details, missing items and follow-up
// questions from the sectioned free-text report produced upstream.
package report

import (
	"regexp"
	"strings"

	"campaign-enricher/internal/models"
)

// Marker introduces every section of the report.
const Marker = "###"

const (
	SectionConfirmed = "Confirmed Details"
	SectionMissing   = "Missing Critical Info"
	SectionQuestions = "Follow-up Questions"
)

var (
	dashItem     = regexp.MustCompile(`\n[ \t]*-`)
	numberedLine = regexp.MustCompile(`^\s*\d+\.\s*`)

	sectionHeaders = map[string]*regexp.Regexp{
		SectionConfirmed: headerPattern(SectionConfirmed),
		SectionMissing:   headerPattern(SectionMissing),
		SectionQuestions: headerPattern(SectionQuestions),
	}
)

// headerPattern matches a section's header line, marker through newline.
func headerPattern(title string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(Marker) + `[ \t]*` + regexp.QuoteMeta(title) + `[^\n]*\n`)
}

// Parse never fails: sections that are absent or empty leave their
// containers empty.
func Parse(text string) models.ParsedReport {
	out := models.NewParsedReport(Format(text))
	text = strings.ReplaceAll(text, "\r\n", "\n")

	if block, ok := Section(text, SectionConfirmed); ok {
		for _, item := range dashItems(block) {
			key, value, _ := strings.Cut(item, ":")
			key = strings.ToLower(strings.TrimSpace(key))
			if key == "" {
				continue
			}
			out.Data.Confirmed[key] = strings.TrimSpace(value)
		}
	}

	if block, ok := Section(text, SectionMissing); ok {
		out.Data.Missing = append(out.Data.Missing, dashItems(block)...)
	}

	if block, ok := Section(text, SectionQuestions); ok {
		for _, line := range strings.Split(block, "\n") {
			loc := numberedLine.FindStringIndex(line)
			if loc == nil {
				continue
			}
			out.Data.Questions = append(out.Data.Questions, strings.TrimSpace(line[loc[1]:]))
		}
	}

	return out
}

// Format inserts a line break before every marker. It only affects display.
func Format(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, Marker, "\n"+Marker))
}

// Section returns the body of the titled section: everything after its header
// line up to the next marker or the end of the text.
func Section(text, title string) (string, bool) {
	header, ok := sectionHeaders[title]
	if !ok {
		header = headerPattern(title)
	}
	loc := header.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	rest := text[loc[1]:]
	if end := strings.Index(rest, Marker); end >= 0 {
		rest = rest[:end]
	}
	return rest, true
}

// dashItems splits a block on the dash that opens each list line and returns
// the trimmed, non-empty items in order.
func dashItems(block string) []string {
	var items []string
	for _, piece := range dashItem.Split("\n"+block, -1) {
		if item := strings.TrimSpace(piece); item != "" {
			items = append(items, item)
		}
	}
	return items
}
