package htmlclean

import (
	"regexp"
	"strings"
)

// cdataMarker opens a block the upstream parser left unparsed.
const cdataMarker = "<![CDATA["

// tagPattern matches one tag token. The interior is the shortest run of
// non-'>' bytes, so a '>' inside a quoted attribute value ends the token
// there.
var tagPattern = regexp.MustCompile(`<(/*)([A-Za-z]\w*)([^>]*?)(\s?/?)>`)

// leadingTag is tagPattern anchored at the start of the text.
var leadingTag = regexp.MustCompile(`^` + tagPattern.String())

// Tag is one tag token found by Tokenize.
type Tag struct {
	Raw       string // the full matched text
	Slashes   string // leading slashes, verbatim
	Name      string // tag name as written
	Attrs     string // unparsed text between the name and the closing marker
	SelfClose string // trailing space and/or slash, verbatim
}

// Closing reports whether the tag starts with a slash.
func (t Tag) Closing() bool {
	return t.Slashes != ""
}

// Token is either a run of literal text (Tag is nil) or a tag token.
// Text always holds the exact input bytes the token covers.
type Token struct {
	Text string
	Tag  *Tag
}

// StripMarkers removes every CDATA opening marker from text, including
// markers that only appear once an inner one is removed.
func StripMarkers(text string) string {
	for strings.Contains(text, cdataMarker) {
		text = strings.ReplaceAll(text, cdataMarker, "")
	}
	return text
}

// tagAt builds the Tag for the submatch indexes m found in text.
func tagAt(text string, m []int) Tag {
	return Tag{
		Raw:       text[m[0]:m[1]],
		Slashes:   text[m[2]:m[3]],
		Name:      text[m[4]:m[5]],
		Attrs:     text[m[6]:m[7]],
		SelfClose: text[m[8]:m[9]],
	}
}

// Tokenize splits text into literal runs and tag tokens, left to right.
// Joining the Text of every token gives back text unchanged.
func Tokenize(text string) []Token {
	var toks []Token
	last := 0
	for _, m := range tagPattern.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			toks = append(toks, Token{Text: text[last:m[0]]})
		}
		tag := tagAt(text, m)
		toks = append(toks, Token{Text: tag.Raw, Tag: &tag})
		last = m[1]
	}
	if last < len(text) {
		toks = append(toks, Token{Text: text[last:]})
	}
	return toks
}
