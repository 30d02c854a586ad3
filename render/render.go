// Package render builds the HTML that wraps already-trusted content:
// block and phrase elements, entity glyphs, and raw inline HTML that
// has to pass through the sanitizer first.
package render

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/njchilds90/htmlclean"
)

// Attrs are the presentational attributes a formatter may attach to an
// element. Empty fields are omitted.
type Attrs struct {
	Class string
	ID    string
	Style string
	Lang  string
}

// String returns the attributes as they appear after a tag name,
// each preceded by a space.
func (a Attrs) String() string {
	var b strings.Builder
	for _, kv := range [...][2]string{
		{"class", a.Class},
		{"id", a.ID},
		{"style", a.Style},
		{"lang", a.Lang},
	} {
		if kv[1] == "" {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(kv[0])
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(kv[1]))
		b.WriteByte('"')
	}
	return b.String()
}

// Element wraps content in the named tag. content is trusted and is not
// escaped.
func Element(tag string, a Attrs, content string) string {
	return "<" + tag + a.String() + ">" + content + "</" + tag + ">"
}

// Block is Element followed by a newline, for block-level tags such as
// p, div, pre and the headings.
func Block(tag string, a Attrs, content string) string {
	return Element(tag, a, content) + "\n"
}

// Void returns an empty element such as br or hr.
func Void(tag string, a Attrs) string {
	return "<" + tag + a.String() + " />"
}

var glyphs = map[string]string{
	"quote1open":  "&#8216;",
	"quote1close": "&#8217;",
	"quote2open":  "&#8220;",
	"quote2close": "&#8221;",
	"ellipsis":    "&#8230;",
	"emdash":      "&#8212;",
	"endash":      " &#8211; ",
	"arrow":       "&#8594;",
	"dim":         "&#215;",
	"trademark":   "&#8482;",
	"registered":  "&#174;",
	"copyright":   "&#169;",
	"amp":         "&amp;",
	"gt":          "&gt;",
	"lt":          "&lt;",
	"quot":        "&quot;",
	"squot":       "&#8217;",
}

// Glyph returns the entity text substituted for a typographic mark.
func Glyph(name string) (string, bool) {
	g, ok := glyphs[name]
	return g, ok
}

// Options controls how InlineHTML treats raw HTML.
type Options struct {
	// Sanitize runs the text through the allowlist sanitizer.
	Sanitize bool
	// Filter escapes the text so no markup survives at all. It is
	// applied after Sanitize when both are set.
	Filter bool
	// Policy is the allowlist used by Sanitize. Nil means
	// htmlclean.DefaultPolicy.
	Policy *htmlclean.Policy
	// Fallback replaces disallowed tags. Nil drops them.
	Fallback htmlclean.Fallback
}

// InlineHTML renders a span of raw HTML found inside markup text.
func InlineHTML(text string, o Options) string {
	if o.Sanitize {
		text = htmlclean.SanitizeFunc(text, o.Policy, o.Fallback)
	}
	if o.Filter {
		return html.EscapeString(text)
	}
	return text
}
