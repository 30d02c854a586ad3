package htmlclean

import "strings"

// attr is one name=value pair read from a tag's attribute text. quote is
// the delimiter the value was written with, or 0 for a bare value.
type attr struct {
	name  string
	value string
	quote byte
}

// quoteStyles is the order in which value forms are preferred.
var quoteStyles = []byte{'"', '\'', 0}

// parseAttrs reads the name=value pairs in s, left to right. Names are
// lowercased. A quoted value runs to its closing quote, so text inside it
// is never read as another attribute. An unterminated quote swallows the
// rest of s. Attributes without a value, or with an empty one, are
// skipped.
func parseAttrs(s string) []attr {
	var attrs []attr
	i := 0
	for i < len(s) {
		c := s[i]
		if isSpace(c) || c == '/' {
			i++
			continue
		}
		if c == '"' || c == '\'' {
			// Stray quoted text outside any value.
			_, i, _ = readValue(s, i)
			continue
		}

		start := i
		for i < len(s) && !isSpace(s[i]) && !strings.ContainsRune(`/="'`, rune(s[i])) {
			i++
		}
		name := strings.ToLower(s[start:i])

		j := skipSpace(s, i)
		if j >= len(s) || s[j] != '=' {
			i = j
			continue
		}
		v, next, quote := readValue(s, skipSpace(s, j+1))
		if name != "" && v != "" {
			attrs = append(attrs, attr{name: name, value: v, quote: quote})
		}
		i = next
	}
	return attrs
}

// readValue reads the value starting at i and returns it with the index
// after it and its quote byte. An unterminated quoted value yields "" and
// len(s).
func readValue(s string, i int) (v string, next int, quote byte) {
	if i >= len(s) {
		return "", i, 0
	}
	if q := s[i]; q == '"' || q == '\'' {
		end := strings.IndexByte(s[i+1:], q)
		if end < 0 {
			return "", len(s), q
		}
		return s[i+1 : i+1+end], i + end + 2, q
	}
	start := i
	for i < len(s) && !isSpace(s[i]) {
		i++
	}
	return s[start:i], i, 0
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// findAttr returns the value kept for name. Double-quoted occurrences are
// preferred, then single-quoted, then bare; within a form the first one
// wins. For href and src a value with a disallowed scheme does not count,
// and the next form is tried.
func findAttr(attrs []attr, name string) (string, bool) {
	for _, q := range quoteStyles {
		for _, a := range attrs {
			if a.name != name || a.quote != q {
				continue
			}
			if urlAttrs[name] && !schemeAllowed(a.value) {
				break
			}
			return a.value, true
		}
	}
	return "", false
}
