package render

import (
	"html"
	"regexp"
	"strings"
)

var (
	openTagRe   = regexp.MustCompile(`<[a-zA-Z][^>]*(?:>|$)`)
	eventAttrRe = regexp.MustCompile(`(?i)\s+on[a-z]+\s*=\s*("[^"]*"|'[^']*'|[^\s>]*)`)
)

var denylist = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script\b.*?</script\s*>`),
	regexp.MustCompile(`(?i)<\s*/?\s*script[^>]*>?`),
	regexp.MustCompile(`(?is)<iframe\b.*?</iframe\s*>`),
	regexp.MustCompile(`(?i)<\s*/?\s*iframe[^>]*>?`),
	regexp.MustCompile(`(?i)javascript\s*:`),
}

// Sanitize is a denylist filter: it strips script and iframe elements,
// inline on* event handlers and javascript: URLs.
//
// This is best effort and NOT an HTML safety guarantee. Anything not on the
// list (style attributes, data: URLs, entity-encoded schemes, SVG payloads)
// passes through. Callers rendering untrusted HTML in a browser should put an
// allowlist sanitizer in front of it.
func Sanitize(in string) string {
	// Every rule only deletes, so the loop ends once nothing matches.
	// Repeating defeats payloads that reassemble after one pass.
	out := in
	for {
		next := out
		for _, re := range denylist {
			next = re.ReplaceAllString(next, "")
		}
		// Event handlers only inside tags; escaped text stays as written.
		next = openTagRe.ReplaceAllStringFunc(next, func(tag string) string {
			return eventAttrRe.ReplaceAllString(tag, "")
		})
		if next == out {
			return out
		}
		out = next
	}
}

var (
	audioRe      = regexp.MustCompile(`(?is)<audio\b.*?</audio\s*>|<audio\b[^>]*>`)
	videoRe      = regexp.MustCompile(`(?is)<video\b.*?</video\s*>|<video\b[^>]*>`)
	fileLinkRe   = regexp.MustCompile(`(?is)<a\b[^>]*>\s*file\s*</a>`)
	fileMdRe     = regexp.MustCompile(`(?i)\[file\]\([^)]*\)`)
	tagRe        = regexp.MustCompile(`<[a-zA-Z/!?][^>]*(?:>|$)`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Describe derives a plain-text summary of sanitized HTML, at most max runes
// long (plus "..." when cut). Tags are stripped again after entities are
// decoded, so escaped markup in the source never comes back as a tag.
func Describe(htmlIn string, max int) string {
	text := audioRe.ReplaceAllString(htmlIn, " [audio] ")
	text = videoRe.ReplaceAllString(text, " [video] ")
	text = fileLinkRe.ReplaceAllString(text, " [file] ")
	text = tagRe.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = tagRe.ReplaceAllString(text, "")
	text = fileMdRe.ReplaceAllString(text, " [file] ")
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))

	runes := []rune(text)
	if max < 1 || len(runes) <= max {
		return text
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}
