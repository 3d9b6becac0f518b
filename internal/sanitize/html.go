package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// StrictPolicy removes all HTML tags and attributes.
var StrictPolicy = bluemonday.StrictPolicy()

// HasMarkup reports whether the strict policy would alter input beyond
// entity escaping, i.e. whether it contains tags. Plain text using < or >
// as ordinary characters ("a < b") is not markup.
func HasMarkup(input string) bool {
	return html.UnescapeString(StrictPolicy.Sanitize(input)) != html.UnescapeString(input)
}

// Text strips all markup and returns trimmed plain text. It is meant for
// text we did not receive from a user, such as model output, where dropping
// tags is preferable to rejecting the whole reply.
func Text(input string) string {
	return strings.TrimSpace(html.UnescapeString(StrictPolicy.Sanitize(input)))
}
