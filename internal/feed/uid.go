package feed

import (
	"strings"
	"time"
)

// slugMaxLen caps the label fragment of a generated identifier.
const slugMaxLen = 30

// GenerateUID builds a deterministic event identifier from a timestamp, a
// human-readable label and a suffix. Identical inputs always produce the
// identical string; there is no hidden state and no randomness.
//
// Generated identifiers are not checked against the UIDs of stored records.
// Callers keep the namespaces apart by convention: companion events use the
// "-na" suffix, sitting-week events "-sw".
func GenerateUID(ts time.Time, label, suffix string) string {
	return ts.Format("20060102T150405") + "Z-" + slugify(label) + suffix
}

// slugify lowercases the label, collapses whitespace runs into single
// hyphens and truncates the result to slugMaxLen runes. Labels that differ
// only in case or in runs of spaces therefore collapse to the same slug.
func slugify(label string) string {
	slug := strings.Join(strings.Fields(strings.ToLower(label)), "-")
	runes := []rune(slug)
	if len(runes) > slugMaxLen {
		return string(runes[:slugMaxLen])
	}
	return slug
}
