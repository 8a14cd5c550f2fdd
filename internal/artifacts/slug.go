package artifacts

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

const (
	slugWordLimit = 4
	timestampForm = "20060102-150405"
)

// Slugify derives a filesystem-safe slug from the first few words of a
// requirement. Non-alphanumeric runs collapse to single hyphens.
func Slugify(requirement string) string {
	words := strings.Fields(strings.ToLower(requirement))
	if len(words) > slugWordLimit {
		words = words[:slugWordLimit]
	}

	var b strings.Builder
	for _, w := range words {
		cleaned := strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		cleaned = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return '-'
		}, cleaned)
		cleaned = strings.Trim(cleaned, "-")
		if cleaned == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('-')
		}
		b.WriteString(cleaned)
	}

	if b.Len() == 0 {
		return "generated-app"
	}
	return b.String()
}

// DirName builds the run directory name: the requirement slug followed by a
// second-resolution timestamp.
func DirName(requirement string, now time.Time) string {
	return fmt.Sprintf("%s-%s", Slugify(requirement), now.Format(timestampForm))
}
