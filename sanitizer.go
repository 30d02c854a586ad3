package htmlclean

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Fallback returns the replacement for a tag the policy does not allow.
// It receives the tag exactly as it appeared in the input.
type Fallback func(raw string) string

// Drop is the default Fallback. It removes the tag.
func Drop(string) string { return "" }

// Escape is a Fallback that keeps the tag as visible, escaped text.
func Escape(raw string) string { return html.EscapeString(raw) }

// Keep is a Fallback that passes the tag through unchanged.
func Keep(raw string) string { return raw }

// Sanitize returns text with CDATA markers removed and every tag token
// checked against p. Allowed tags are rebuilt with only their permitted
// attributes; other tags are dropped. Text outside tags is copied as is.
// If p is nil, DefaultPolicy is used.
func Sanitize(text string, p *Policy) string {
	return SanitizeFunc(text, p, nil)
}

// SanitizeFunc is like Sanitize but replaces each disallowed tag with
// fallback(raw). A nil fallback drops the tag.
//
// When a tag is replaced by nothing, the text on either side is checked
// again, so a tag or marker that only forms once the gap closes is
// handled like any other. A non-empty replacement is written verbatim
// and is not scanned again.
//
// The input string is never modified; the result is a new string.
func SanitizeFunc(text string, p *Policy, fallback Fallback) string {
	if p == nil {
		p = DefaultPolicy()
	}
	if fallback == nil {
		fallback = Drop
	}

	c := &cleaner{p: p, fallback: fallback, out: make([]byte, 0, len(text))}
	c.run(StripMarkers(text))
	return string(c.out)
}

// cleaner holds the output of one SanitizeFunc call.
type cleaner struct {
	p        *Policy
	fallback Fallback
	out      []byte
}

func (c *cleaner) run(rest string) {
	for rest != "" {
		m := tagPattern.FindStringSubmatchIndex(rest)
		if m == nil {
			c.out = append(c.out, rest...)
			return
		}
		c.out = append(c.out, rest[:m[0]]...)
		repl := c.replace(tagAt(rest, m))
		c.out = append(c.out, repl...)
		rest = rest[m[1]:]
		if repl == "" {
			rest = c.rejoin(rest)
		}
	}
}

// replace returns the rebuilt tag, or the fallback text if t is not
// allowed.
func (c *cleaner) replace(t Tag) string {
	if s, ok := c.p.Rewrite(t); ok {
		return s
	}
	return c.fallback(t.Raw)
}

// rejoin is called after a tag was removed from between c.out and rest.
// It removes a CDATA marker split across the gap, and handles a tag whose
// opening "<" is already in c.out. Every earlier "<" in c.out is followed
// by bytes that cannot start a tag name, so only a trailing "<" plus
// slashes can open one. It returns what is left of rest.
func (c *cleaner) rejoin(rest string) string {
	for {
		if n := markerOverlap(c.out, rest); n > 0 {
			c.out = c.out[:len(c.out)-n]
			rest = rest[len(cdataMarker)-n:]
			continue
		}

		i := openTail(c.out)
		if i < 0 {
			return rest
		}
		// The interior of a tag holds no '>', so the joined tag would
		// end at the first '>' of rest.
		gt := strings.IndexByte(rest, '>')
		if gt < 0 {
			return rest
		}
		joined := string(c.out[i:]) + rest[:gt+1]
		m := leadingTag.FindStringSubmatchIndex(joined)
		if m == nil {
			return rest
		}
		c.out = c.out[:i]
		rest = rest[gt+1:]
		repl := c.replace(tagAt(joined, m))
		c.out = append(c.out, repl...)
		if repl != "" {
			return rest
		}
	}
}

// openTail returns the index of a trailing "<" followed only by slashes,
// or -1.
func openTail(b []byte) int {
	i := len(b) - 1
	for i >= 0 && b[i] == '/' {
		i--
	}
	if i >= 0 && b[i] == '<' {
		return i
	}
	return -1
}

// markerOverlap returns n > 0 if out ends with the first n bytes of the
// CDATA marker and rest starts with the remainder.
func markerOverlap(out []byte, rest string) int {
	for n := len(cdataMarker) - 1; n > 0; n-- {
		if n > len(out) {
			continue
		}
		if string(out[len(out)-n:]) == cdataMarker[:n] && strings.HasPrefix(rest, cdataMarker[n:]) {
			return n
		}
	}
	return 0
}

// SanitizeReader reads all of r and sanitizes it with p. The only
// errors returned come from r.
func SanitizeReader(r io.Reader, p *Policy, fallback Fallback) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return SanitizeFunc(string(data), p, fallback), nil
}

// StripTags removes all tags and returns plain text with entity
// references decoded. The contents of script and style elements are
// dropped along with the tags.
func StripTags(text string) string {
	z := html.NewTokenizer(strings.NewReader(text))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawText(name) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawText(name) && skip > 0 {
				skip--
			}
		}
	}
}

func isRawText(name []byte) bool {
	switch atom.Lookup(name) {
	case atom.Script, atom.Style:
		return true
	}
	return false
}
