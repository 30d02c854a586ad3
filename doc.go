// Package htmlclean sanitizes fragments of raw HTML embedded in
// otherwise trusted markup, before the result is shown to a user.
//
// # Overview
//
// htmlclean is not a DOM parser. It makes one linear pass over the
// input, finds tag-shaped tokens with a fixed pattern, and decides each
// one on its own against a [Policy]. Text between tags is copied byte
// for byte, entity references included. Nesting and balance are not
// checked.
//
// Processing has two steps:
//   - [StripMarkers] removes every "<![CDATA[" marker.
//   - [Tokenize] splits the text into literal runs and [Tag] tokens, and
//     [Policy.Rewrite] rebuilds each allowed tag.
//
// # Policies
//
// A [Policy] maps lowercase tag names to the attributes each may keep.
// Attribute order in the policy is the order they are written out, and
// only the first occurrence of an attribute is kept. Values of href and
// src must start with http:, https: or ftp:; other values are dropped
// and the rest of the tag is kept.
//
// [DefaultPolicy] covers a small safe subset: a (href, title), img (src,
// alt, title), td (colspan, rowspan), ol (start), code (lang),
// blockquote (cite), and a set of formatting and structural tags with no
// attributes.
//
// # Unauthorized tags
//
// A tag missing from the policy is dropped entirely by [Sanitize].
// [SanitizeFunc] takes a [Fallback] that receives the original tag text
// and returns its replacement; [Escape] and [Keep] are provided.
//
// # Limitations
//
// A '>' inside an attribute value ends the tag token early. The leftover
// text is treated as literal text. Input that relies on this can leave
// partial attribute text in the output, but never a tag that the policy
// did not rebuild.
//
// Removing a tag can bring a new one together, as in "<<x>b>". Such tags
// are checked against the policy like any other.
//
// # Thread Safety
//
// All functions are safe for concurrent use. A Policy is immutable
// once built.
//
// # Example
//
//	clean := htmlclean.Sanitize(fragment, htmlclean.DefaultPolicy())
package htmlclean
