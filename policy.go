package htmlclean

import (
	"sort"
	"strings"
)

// Policy is an allowlist of tag names, each mapped to the attributes it
// may keep. A Policy is never modified after NewPolicy returns, so one
// value can be shared by any number of goroutines.
type Policy struct {
	tags    map[string]*entry
	escaper func(string) string
}

// PolicyOption customizes a Policy built by NewPolicy.
type PolicyOption func(*Policy)

// WithQuoteEscaper sets the function applied to every kept attribute
// value before it is written between double quotes. The default is
// BackslashQuotes.
func WithQuoteEscaper(fn func(string) string) PolicyOption {
	return func(p *Policy) {
		if fn != nil {
			p.escaper = fn
		}
	}
}

// BackslashQuotes prefixes each double quote in v with a backslash.
//
// Browsers do not treat a backslash as an escape inside an attribute
// value, so a value carrying a double quote can still end the
// attribute early. Use EntityQuotes for output that goes straight to a
// browser.
func BackslashQuotes(v string) string {
	return strings.ReplaceAll(v, `"`, `\"`)
}

// EntityQuotes replaces each double quote in v with &quot;.
func EntityQuotes(v string) string {
	return strings.ReplaceAll(v, `"`, "&quot;")
}

// entry is one tag's allowlist. A nil attrs slice means every attribute
// is dropped.
type entry struct {
	attrs []string
}

// urlAttrs lists the attributes whose values must use an allowed scheme.
var urlAttrs = map[string]bool{
	"href": true,
	"src":  true,
}

// allowedSchemes are the prefixes accepted for href and src values.
var allowedSchemes = []string{"http:", "https:", "ftp:"}

func schemeAllowed(v string) bool {
	for _, s := range allowedSchemes {
		if strings.HasPrefix(v, s) {
			return true
		}
	}
	return false
}

// NewPolicy builds a Policy from a map of tag name to permitted
// attribute names. A nil or empty slice allows the tag with no
// attributes. Attribute order is kept and decides output order.
// Tag and attribute names are matched without regard to case.
// The tag map is copied.
func NewPolicy(tags map[string][]string, opts ...PolicyOption) *Policy {
	p := &Policy{
		tags:    make(map[string]*entry, len(tags)),
		escaper: BackslashQuotes,
	}
	for tag, attrs := range tags {
		e := &entry{}
		seen := make(map[string]bool, len(attrs))
		for _, a := range attrs {
			a = strings.ToLower(strings.TrimSpace(a))
			if a == "" || seen[a] {
				continue
			}
			seen[a] = true
			e.attrs = append(e.attrs, a)
		}
		p.tags[strings.ToLower(tag)] = e
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BasicTags is the tag table behind DefaultPolicy. Callers building
// their own policy may start from a copy of it.
func BasicTags() map[string][]string {
	return map[string][]string{
		"a":          {"href", "title"},
		"img":        {"src", "alt", "title"},
		"br":         nil,
		"i":          nil,
		"u":          nil,
		"b":          nil,
		"pre":        nil,
		"kbd":        nil,
		"code":       {"lang"},
		"cite":       nil,
		"strong":     nil,
		"em":         nil,
		"ins":        nil,
		"sup":        nil,
		"sub":        nil,
		"del":        nil,
		"table":      nil,
		"tr":         nil,
		"td":         {"colspan", "rowspan"},
		"th":         nil,
		"ol":         {"start"},
		"ul":         nil,
		"li":         nil,
		"p":          nil,
		"h1":         nil,
		"h2":         nil,
		"h3":         nil,
		"h4":         nil,
		"h5":         nil,
		"h6":         nil,
		"blockquote": {"cite"},
	}
}

var defaultPolicy = NewPolicy(BasicTags())

// DefaultPolicy returns the shared default policy: anchors, images,
// table cells, ordered lists and block quotes with a few attributes,
// plus attribute-less formatting and structural tags.
func DefaultPolicy() *Policy {
	return defaultPolicy
}

// Allows reports whether tag is in the policy.
func (p *Policy) Allows(tag string) bool {
	_, ok := p.tags[strings.ToLower(tag)]
	return ok
}

// Lookup returns the permitted attributes of tag in output order. ok is
// false when the tag is not allowed at all; a nil slice with ok true
// means the tag keeps no attributes.
func (p *Policy) Lookup(tag string) (attrs []string, ok bool) {
	e, ok := p.tags[strings.ToLower(tag)]
	if !ok {
		return nil, false
	}
	return append([]string(nil), e.attrs...), true
}

// Tags returns the allowed tag names, sorted.
func (p *Policy) Tags() []string {
	names := make([]string, 0, len(p.tags))
	for name := range p.tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Table returns a copy of the policy as a tag map, in the form accepted
// by NewPolicy.
func (p *Policy) Table() map[string][]string {
	out := make(map[string][]string, len(p.tags))
	for name := range p.tags {
		out[name], _ = p.Lookup(name)
	}
	return out
}

// withEscaper returns a shallow copy of p using fn for attribute values.
// The entries are shared; they are read-only.
func (p *Policy) withEscaper(fn func(string) string) *Policy {
	q := *p
	q.escaper = fn
	return &q
}

// Rewrite rebuilds t according to the policy. It returns false when the
// tag is not allowed, leaving the choice of replacement to the caller.
func (p *Policy) Rewrite(t Tag) (string, bool) {
	name := strings.ToLower(t.Name)
	e, ok := p.tags[name]
	if !ok {
		return "", false
	}

	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(t.Slashes)
	b.WriteString(name)
	var attrs []attr
	if len(e.attrs) > 0 {
		attrs = parseAttrs(t.Attrs)
	}
	for _, name := range e.attrs {
		v, ok := findAttr(attrs, name)
		if !ok {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(name)
		b.WriteString(`="`)
		b.WriteString(p.escaper(v))
		b.WriteByte('"')
	}
	b.WriteString(t.SelfClose)
	b.WriteByte('>')
	return b.String(), true
}
