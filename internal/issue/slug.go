package issue

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slugify lower-cases name and keeps letters, digits and underscores. Every
// run of other characters, dashes included, becomes a single dash; leading and
// trailing runs are dropped. The result is always a single directory name.
func Slugify(name string) string {
	// Casers keep state, so one is built per call.
	lowered := cases.Lower(language.Und).String(strings.TrimSpace(name))

	var b strings.Builder
	pendingDash := false
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
