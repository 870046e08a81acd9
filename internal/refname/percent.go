package refname

import (
	"iter"
	"strings"
)

const upperhex = "0123456789ABCDEF"

// shouldEscape reports whether c is in the WHATWG path percent-encode set
// (which includes the fragment set). Every non-ASCII byte is escaped too.
func shouldEscape(c byte) bool {
	if c < 0x20 || c >= 0x7f {
		return true
	}
	switch c {
	case ' ', '"', '<', '>', '`', '#', '?', '{', '}':
		return true
	}
	return false
}

// PercentEncode returns the URL path encoding of n as a sequence of chunks:
// runs of bytes that need no escaping and single "%XX" escapes. The sequence
// is computed lazily and can be iterated any number of times.
func (n Name) PercentEncode() iter.Seq[string] {
	return percentEncode(n.s)
}

func percentEncode(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := 0
		for i := 0; i < len(s); i++ {
			c := s[i]
			if !shouldEscape(c) {
				continue
			}
			if start < i && !yield(s[start:i]) {
				return
			}
			if !yield(string([]byte{'%', upperhex[c>>4], upperhex[c&0x0f]})) {
				return
			}
			start = i + 1
		}
		if start < len(s) {
			yield(s[start:])
		}
	}
}

func (n Name) PercentEncoded() string {
	var b strings.Builder
	for chunk := range n.PercentEncode() {
		b.WriteString(chunk)
	}
	return b.String()
}
