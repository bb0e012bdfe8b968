package urlval

import (
	"strconv"
	"strings"
)

// split divides raw text into components without rejecting anything. It is
// deliberately more forgiving than net/url: invalid percent escapes, control
// characters and garbage ports all pass through (the port is simply dropped).
func split(s string) URL {
	var u URL

	if i := strings.IndexByte(s, '#'); i >= 0 {
		u.fragment = s[i+1:]
		s = s[:i]
	}
	if i := schemeEnd(s); i > 0 {
		u.scheme = strings.ToLower(s[:i])
		s = s[i+1:]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		u.query = s[i+1:]
		s = s[:i]
	}
	if strings.HasPrefix(s, "//") {
		authority := s[2:]
		s = ""
		if i := strings.IndexByte(authority, '/'); i >= 0 {
			s = authority[i:]
			authority = authority[:i]
		}
		u.hasHost = true
		if i := strings.LastIndexByte(authority, '@'); i >= 0 {
			u.userinfo = authority[:i]
			u.hasUser = true
			authority = authority[i+1:]
		}
		host := authority
		if i := strings.LastIndexByte(authority, ':'); i >= 0 && i > strings.LastIndexByte(authority, ']') {
			host = authority[:i]
			if n, err := strconv.Atoi(authority[i+1:]); err == nil && n >= 0 && n <= 65535 {
				u.port = n
				u.hasPort = true
			}
		}
		u.host = strings.ToLower(host)
	}
	u.path = s

	// Legacy path parameters sit after the first ';' of the final segment.
	from := strings.LastIndexByte(u.path, '/')
	if from < 0 {
		from = 0
	}
	if i := strings.IndexByte(u.path[from:], ';'); i >= 0 {
		u.params = u.path[from+i+1:]
		u.path = u.path[:from+i]
	}
	return u
}

func schemeEnd(s string) int {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ':':
			return i
		case isAlpha(c):
		case i > 0 && (isDigit(c) || c == '+' || c == '-' || c == '.'):
		default:
			return -1
		}
	}
	return -1
}

func isAlpha(c byte) bool { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' }
func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// collapseRuns squeezes every run of d down to a single occurrence.
func collapseRuns(s string, d byte) string {
	if !strings.Contains(s, string([]byte{d, d})) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	prev := false
	for i := 0; i < len(s); i++ {
		if s[i] == d {
			if prev {
				continue
			}
			prev = true
		} else {
			prev = false
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// collapseDelims squeezes delimiter runs and strips a leading or trailing
// delimiter, so at most one d ever separates two tokens.
func collapseDelims(s string, d byte) string {
	s = collapseRuns(s, d)
	s = strings.TrimPrefix(s, string([]byte{d}))
	return strings.TrimSuffix(s, string([]byte{d}))
}
