// Package report implements the daily report extraction engine.
//
// The engine takes the raw markdown content of a report document, extracts
// the section belonging to one calendar date, groups its bullet entries by
// bracketed category tag, and renders the result as a Telegram-ready HTML
// message.
//
// Document format:
//
//	# [2026-02-06]
//	**Alice**
//	[panda] Fix login bug
//	- Write docs
//	# [2026-02-07]
//	...
//
// Date headers have the form "# [YYYY-MM-DD]"; the brackets may be escaped
// with a backslash (ClickUp's markdown export does both). A bracketed tag
// anywhere in a line switches the active category for that line and the
// following lines until the next tag. Lines without any tag fall into the
// current category, defaulting to "Others".
package report

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DefaultCategory collects entries that carry no usable category tag.
const DefaultCategory = "Others"

// headingMaxLen is the length below which a plain line (no brackets, no
// emphasis, no hyphen) is treated as a sub-title rather than an entry.
const headingMaxLen = 30

var (
	boldHeadingRe = regexp.MustCompile(`^\*\*.*\*\*$`)
	categoryTagRe = regexp.MustCompile(`\\?\[(.*?)\\?\]`)
	bulletRe      = regexp.MustCompile(`^[*\-+]\s+`)
	tagNoiseRe    = regexp.MustCompile(`\\?\[.*?\\?\]\s*:?\s*`)
)

// Entries holds categorized report entries, preserving the order in which
// categories and entries were first seen.
type Entries struct {
	order   []string
	byLabel map[string][]string
}

// NewEntries returns an empty Entries collection.
func NewEntries() *Entries {
	return &Entries{byLabel: make(map[string][]string)}
}

// Add appends an entry to a category unless the identical entry is already
// present in that category.
func (e *Entries) Add(category, entry string) {
	if _, ok := e.byLabel[category]; !ok {
		e.order = append(e.order, category)
	}
	for _, existing := range e.byLabel[category] {
		if existing == entry {
			return
		}
	}
	e.byLabel[category] = append(e.byLabel[category], entry)
}

// Categories returns the category labels in first-seen order.
func (e *Entries) Categories() []string {
	return e.order
}

// Get returns the entries for a category in insertion order.
func (e *Entries) Get(category string) []string {
	return e.byLabel[category]
}

// Len returns the total number of entries across all categories.
func (e *Entries) Len() int {
	n := 0
	for _, items := range e.byLabel {
		n += len(items)
	}
	return n
}

// ExtractDailySection returns the text between the header for date and the
// next date header (or end of document). The bool reports whether a header
// for the date was found.
func ExtractDailySection(content, date string) (string, bool) {
	pattern := `(?s)# \\?\[` + regexp.QuoteMeta(date) + `\\?\](.*?)(?:# \\?\[|\z)`
	re := regexp.MustCompile(pattern)

	matches := re.FindStringSubmatch(content)
	if matches == nil {
		return "", false
	}
	return strings.TrimSpace(matches[1]), true
}

// GroupEntries walks the lines of a daily section and groups them by
// category. It is a fold over the lines carrying the active category:
// a bracketed tag switches the category, every following line lands in it
// until the next tag.
func GroupEntries(section string) *Entries {
	entries := NewEntries()
	activeCategory := DefaultCategory

	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if isHeading(line) {
			continue
		}

		if detected, ok := detectCategory(line); ok {
			activeCategory = detected
		}

		cleaned := cleanEntry(line)

		// Tag-only lines have nothing left after cleaning; they only
		// served to switch the category.
		if cleaned == "" {
			continue
		}

		if strings.EqualFold(cleaned, "project") {
			continue
		}

		entries.Add(activeCategory, cleaned)
	}

	return entries
}

// isHeading reports whether a line is a sub-title carrying no entry content:
// fully bold ("**Name**") or a short plain line without brackets, emphasis
// markers, or hyphens.
func isHeading(line string) bool {
	if boldHeadingRe.MatchString(line) {
		return true
	}
	return len(line) < headingMaxLen &&
		!strings.Contains(line, "[") &&
		!strings.Contains(line, "*") &&
		!strings.Contains(line, "-")
}

// detectCategory extracts a category label from a bracketed tag in the line.
// Tags "project" and "others" (any case) map to the default category; any
// other tag is used with its first letter capitalized.
func detectCategory(line string) (string, bool) {
	matches := categoryTagRe.FindStringSubmatch(line)
	if matches == nil {
		return "", false
	}

	tag := strings.TrimSpace(matches[1])
	switch strings.ToLower(tag) {
	case "project", "others":
		return DefaultCategory, true
	}
	return upperFirst(tag), true
}

// cleanEntry strips the leading bullet marker and every bracketed tag
// (with any trailing colon and whitespace) from a line.
func cleanEntry(line string) string {
	line = bulletRe.ReplaceAllString(line, "")
	line = tagNoiseRe.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}

// upperFirst capitalizes the first rune, leaving the rest untouched.
func upperFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// FormatMessage renders grouped entries as a Telegram HTML message.
// Entry text is HTML-escaped; categories with no entries are omitted.
func FormatMessage(entries *Entries, date time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<b>Daily Report %d %s %d</b>\n\n", date.Day(), date.Month().String(), date.Year())

	for _, category := range entries.Categories() {
		items := entries.Get(category)
		if len(items) == 0 {
			continue
		}

		fmt.Fprintf(&b, "<b>%s</b>\n", category)
		for _, item := range items {
			fmt.Fprintf(&b, "- %s\n", html.EscapeString(item))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// BuildReport extracts, groups, and formats the report for one date.
// The document content is normalized to NFC first so that header and tag
// matching is byte-stable regardless of how the source composed its
// characters.
func BuildReport(content string, date time.Time) (string, error) {
	content = norm.NFC.String(content)
	iso := date.Format("2006-01-02")

	section, ok := ExtractDailySection(content, iso)
	if !ok {
		return "", fmt.Errorf("no report entries found for date %s: %w", iso, ErrSectionNotFound)
	}

	entries := GroupEntries(section)
	if entries.Len() == 0 {
		return "", fmt.Errorf("nothing extractable for date %s: %w", iso, ErrEmptyReport)
	}

	return FormatMessage(entries, date), nil
}
