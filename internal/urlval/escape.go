package urlval

import "strings"

// Character classes from RFC 3986 section 2.
const (
	alphaChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	digitChars = "0123456789"
	unreserved = alphaChars + digitChars + "-._~"
	genDelims  = ":/?#[]@"
	subDelims  = "!$&'()*+,;="
	pcharClass = unreserved + subDelims + ":@"
	hexUpper   = "0123456789ABCDEF"
)

// SafeSet is the set of bytes a component may contain unescaped.
type SafeSet [256]bool

func makeSet(chars string) *SafeSet {
	var s SafeSet
	for i := 0; i < len(chars); i++ {
		s[chars[i]] = true
	}
	return &s
}

var (
	// PathSafe is pchar plus "/".
	PathSafe = makeSet(pcharClass + "/")
	// QuerySafe is pchar plus "/?"; it also covers the legacy params
	// component, which has no stricter modern grammar.
	QuerySafe = makeSet(pcharClass + "/?")
	// UserinfoSafe is unreserved plus sub-delims plus ":".
	UserinfoSafe = makeSet(unreserved + subDelims + ":")

	reservedSet = makeSet(genDelims + subDelims)
)

// Encode percent-encodes s against the given safe set in a single pass over
// {percent-triplet | byte} tokens. A literal byte outside the safe set is
// escaped as the uppercase hex of its UTF-8 bytes. A valid triplet is
// unescaped when its byte is safe (lenient) or safe and non-reserved
// (strict); otherwise it is kept with its hex digits uppercased. A lone '%'
// is an ordinary unsafe byte. The output is a fixed point: encoding it again
// changes nothing.
func Encode(s string, safe *SafeSet, strict bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '%' && i+2 < len(s) && isHexDigit(s[i+1]) && isHexDigit(s[i+2]) {
			v := unhex(s[i+1])<<4 | unhex(s[i+2])
			if safe[v] && !(strict && reservedSet[v]) {
				b.WriteByte(v)
			} else {
				b.WriteByte('%')
				b.WriteByte(upperHexDigit(s[i+1]))
				b.WriteByte(upperHexDigit(s[i+2]))
			}
			i += 2
			continue
		}
		if safe[c] {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexUpper[c>>4])
		b.WriteByte(hexUpper[c&0xf])
	}
	return b.String()
}

// Decode percent-decodes every valid triplet in s. Anything else, including
// a lone '%', passes through untouched.
func Decode(s string) string {
	if !strings.ContainsRune(s, '%') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHexDigit(s[i+1]) && isHexDigit(s[i+2]) {
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHexDigit(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	default:
		return c - '0'
	}
}

func upperHexDigit(c byte) byte {
	if 'a' <= c && c <= 'f' {
		return c - ('a' - 'A')
	}
	return c
}

// Escape percent-encodes path, query, params and userinfo against their safe
// sets, unescaping triplets whose byte the component may carry literally.
func (u *URL) Escape() *URL { return u.escape(false) }

// EscapeStrict is Escape in strict mode: triplets for reserved characters
// are never unescaped, only normalized to uppercase hex.
func (u *URL) EscapeStrict() *URL { return u.escape(true) }

func (u *URL) escape(strict bool) *URL {
	c := u.clone()
	c.path = Encode(c.path, PathSafe, strict)
	c.query = Encode(c.query, QuerySafe, strict)
	c.params = Encode(c.params, QuerySafe, strict)
	if c.hasUser {
		c.userinfo = Encode(c.userinfo, UserinfoSafe, strict)
	}
	return c
}

// Unescape percent-decodes the path only. Query and params stay encoded on
// purpose: decoding them could conjure up new '&' or ';' delimiters.
func (u *URL) Unescape() *URL {
	c := u.clone()
	c.path = Decode(c.path)
	return c
}
