// Package urlval is a URL value type built for deduplication, crawling and
// sanitization. Construction is liberal: anything that looks vaguely like a
// URL reference is accepted and normalized rather than rejected. All
// transformations return a new value; see Pipeline for chaining the fallible
// ones.
package urlval

import (
	"fmt"
	neturl "net/url"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/unicode/norm"
)

// default ports per registered scheme, used by Equiv.
var defaultPorts = map[string]int{
	"http":  80,
	"https": 443,
}

// URL holds the eight components of a reference. hasHost tracks authority
// presence: an input like "http:///path" has a present-but-empty host, which
// is distinct from no host at all.
type URL struct {
	scheme   string
	userinfo string
	hasUser  bool
	host     string
	hasHost  bool
	port     int
	hasPort  bool
	path     string
	params   string
	query    string
	fragment string
}

// Parse builds a URL from raw text. It never fails: malformed ports are
// dropped, stray delimiters are collapsed, and anything else is kept as-is
// for later sanitization. Input is normalized to Unicode NFC first.
func Parse(raw string) *URL {
	u := split(norm.NFC.String(raw))
	if u.path == "" && u.hasHost {
		u.path = "/"
	}
	u.params = collapseDelims(u.params, ';')
	u.query = collapseDelims(strings.TrimLeft(u.query, "?"), '&')
	return &u
}

// ParseBytes decodes b with the given source encoding before parsing.
// A nil encoding means the bytes are already UTF-8.
func ParseBytes(b []byte, enc encoding.Encoding) (*URL, error) {
	if enc != nil {
		decoded, err := enc.NewDecoder().Bytes(b)
		if err != nil {
			return nil, fmt.Errorf("decode url bytes: %w", err)
		}
		b = decoded
	}
	return Parse(string(b)), nil
}

func (u *URL) clone() *URL {
	c := *u
	return &c
}

func (u *URL) Scheme() string   { return u.scheme }
func (u *URL) Host() string     { return u.host }
func (u *URL) Path() string     { return u.path }
func (u *URL) Params() string   { return u.params }
func (u *URL) Query() string    { return u.query }
func (u *URL) Fragment() string { return u.fragment }

// Port returns the explicit port and whether one was present. Absent is
// distinct from "equal to the scheme default".
func (u *URL) Port() (int, bool) { return u.port, u.hasPort }

// Userinfo returns the user[:pass] text and whether it was present.
func (u *URL) Userinfo() (string, bool) { return u.userinfo, u.hasUser }

// Absolute reports whether the URL carries a non-empty hostname.
func (u *URL) Absolute() bool { return u.hasHost && u.host != "" }

// String assembles the components in the fixed order
// scheme://userinfo@host:port/path;params?query#fragment. The authority is
// rendered whenever userinfo, host or port is present, even if the host text
// is empty.
func (u *URL) String() string {
	var b strings.Builder
	if u.scheme != "" {
		b.WriteString(u.scheme)
		b.WriteByte(':')
	}
	if u.hasHost {
		b.WriteString("//")
		if u.hasUser {
			b.WriteString(u.userinfo)
			b.WriteByte('@')
		}
		b.WriteString(u.host)
		if u.hasPort {
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(u.port))
		}
		if u.path != "" && u.path[0] != '/' {
			b.WriteByte('/')
		}
	}
	b.WriteString(u.path)
	if u.params != "" {
		b.WriteByte(';')
		b.WriteString(u.params)
	}
	if u.query != "" {
		b.WriteByte('?')
		b.WriteString(u.query)
	}
	if u.fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.fragment)
	}
	return b.String()
}

// Bytes returns the UTF-8 serialization.
func (u *URL) Bytes() []byte { return []byte(u.String()) }

// GoString is the debug form.
func (u *URL) GoString() string { return fmt.Sprintf("urlval.Parse(%q)", u.String()) }

// Defrag returns a copy with the fragment removed.
func (u *URL) Defrag() *URL {
	c := u.clone()
	c.fragment = ""
	return c
}

// Deuserinfo returns a copy with the userinfo removed.
func (u *URL) Deuserinfo() *URL {
	c := u.clone()
	c.userinfo = ""
	c.hasUser = false
	return c
}

// Sanitize is the recommended default hardening: Abspath then Escape.
func (u *URL) Sanitize() *URL { return u.Abspath().Escape() }

// Relative resolves ref against u and returns the result. Resolution is
// delegated to net/url on the serializations; if either side is beyond what
// net/url accepts, ref is parsed on its own as a best effort.
func (u *URL) Relative(ref string) *URL {
	ref = norm.NFC.String(ref)
	base, err := neturl.Parse(u.String())
	if err != nil {
		return Parse(ref)
	}
	r, err := neturl.Parse(ref)
	if err != nil {
		return Parse(ref)
	}
	return Parse(base.ResolveReference(r).String())
}
