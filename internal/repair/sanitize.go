// Package repair implements the idempotent dataset repair steps: finance
// master data, the settlement lifecycle, CRM orphan relinking, drive
// cleanup and the synthetic mailbox.
package repair

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	stripMarks   = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	invalidChars = regexp.MustCompile(`[^a-zA-Z0-9\-_. ]+`)
	spaceRuns    = regexp.MustCompile(`\s+`)
	dashRuns     = regexp.MustCompile(`-+`)
)

// SanitizeName reduces free text to a filename-safe ASCII slug: accents
// are folded, anything outside [a-zA-Z0-9-_. ] is dropped, space runs
// become single dashes and the result is truncated to max bytes.
func SanitizeName(value string, max int) string {
	s, _, err := transform.String(stripMarks, value)
	if err != nil {
		s = value
	}
	s = invalidChars.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = spaceRuns.ReplaceAllString(s, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	if len(s) > max {
		s = s[:max]
	}
	return s
}
