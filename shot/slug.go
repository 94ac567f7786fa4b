package shot

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// maxSlugLength caps slugs; longer text loses whole trailing segments
const maxSlugLength = 45

// minSlugLength is the shortest slug accepted before falling back
const minSlugLength = 3

var (
	markdownChars  = regexp.MustCompile("[`*_#]")
	quoteChars     = regexp.MustCompile(`["'()]`)
	nonWordChars   = regexp.MustCompile(`[^\p{L}\p{N}\s\p{Zs}-]`)
	separatorRuns  = regexp.MustCompile(`[-\s\p{Zs}]+`)
	fillerSegments = map[string]bool{
		"image": true, "photo": true, "picture": true, "png": true,
		"jpg": true, "jpeg": true, "screenshot": true, "img": true,
	}
)

// FallbackName is the timestamp name used when no usable description exists
func FallbackName(now time.Time) string {
	return "image-" + now.Format("20060102-150405")
}

// Slugify turns a free-text image description into a filename fragment,
// falling back to a timestamp name when nothing usable is left
func Slugify(raw string, now time.Time) string {
	if s, ok := slugify(raw); ok {
		return s
	}
	return FallbackName(now)
}

// slugify reports false when the cleaned text is too short to use
func slugify(raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = markdownChars.ReplaceAllString(s, "")
	s = quoteChars.ReplaceAllString(s, "")

	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}

	s = nonWordChars.ReplaceAllString(s, "")
	s = separatorRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	s = dropFillerSegments(s)
	s = capSegments(s, maxSlugLength)

	if utf8.RuneCountInString(s) < minSlugLength {
		return "", false
	}
	return s, true
}

func dropFillerSegments(s string) string {
	if s == "" {
		return s
	}
	parts := strings.Split(s, "-")
	kept := parts[:0]
	for _, p := range parts {
		if !fillerSegments[p] {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "-")
}

// capSegments returns the longest prefix of whole hyphen-separated segments
// that fits in max characters. A first segment longer than max yields "".
func capSegments(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}

	var kept []string
	length := 0
	for _, part := range strings.Split(s, "-") {
		n := utf8.RuneCountInString(part)
		if len(kept) > 0 {
			n++ // joining hyphen
		}
		if length+n > max {
			break
		}
		kept = append(kept, part)
		length += n
	}
	return strings.Join(kept, "-")
}
