// Package seed bulk-imports the curated DAIL case workbook into the graph.
// The source spreadsheet is hand-maintained, so every field passes through a
// cleaning helper before it touches storage.
package seed

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// CleanValue trims a cell and drops spreadsheet null spellings.
func CleanValue(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "nan", "none", "null":
		return ""
	}
	return s
}

// CleanList splits a comma-separated cell into trimmed entries. Entries may
// be individually quoted; quotes are stripped and null spellings dropped.
func CleanList(s string) []string {
	s = strings.TrimSpace(s)
	if CleanValue(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `'"`)
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if low := strings.ToLower(p); low == "nan" || low == "none" {
			continue
		}
		out = append(out, p)
	}
	return out
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2-Jan-06",
	time.RFC3339,
}

// CleanDate normalizes a spreadsheet date cell to YYYY-MM-DD, or empty when
// it does not parse.
func CleanDate(s string) string {
	s = CleanValue(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// MakeSlug derives a URL-safe case id from the caption, falling back to the
// numeric row id when the caption is unusable.
func MakeSlug(caption string, numericID int) string {
	s := strings.ToLower(CleanValue(caption))
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	slug := strings.Join(strings.Fields(b.String()), "-")
	if len(slug) > 60 {
		slug = strings.TrimRight(slug[:60], "-")
	}
	if slug == "" {
		return fmt.Sprintf("case-%d", numericID)
	}
	return slug
}

// NormalizeStatus title-cases a free-form status cell so "active" and
// "ACTIVE" both land on "Active".
func NormalizeStatus(s string) string {
	s = CleanValue(s)
	if s == "" {
		return ""
	}
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
