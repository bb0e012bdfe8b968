package urlval

import "strings"

// Abspath removes dot segments and duplicate slashes from path text. The
// result is relative-to-root and never starts with "/". A ".." at the root
// is dropped silently instead of escaping above it, and a walk that ends on
// "." or ".." names a directory, so the trailing slash is restored.
//
//	Abspath("a/b/../../c") == "c"
//	Abspath("a/b/c/..")    == "a/b/"
//	Abspath("////foo")     == "foo"
//	Abspath(".")           == ""
func Abspath(path string) string {
	path = strings.TrimPrefix(collapseRuns(path, '/'), "/")
	segs := strings.Split(path, "/")
	out := segs[:0]
	directory := false
	for _, seg := range segs {
		switch seg {
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
			directory = true
		case ".":
			directory = true
		default:
			out = append(out, seg)
			directory = false
		}
	}
	joined := strings.Join(out, "/")
	if directory && joined != "" {
		joined += "/"
	}
	return joined
}

// Abspath returns a copy with the path normalized. A path that was rooted
// stays rooted.
func (u *URL) Abspath() *URL {
	c := u.clone()
	p := Abspath(c.path)
	if strings.HasPrefix(c.path, "/") {
		p = "/" + p
	}
	c.path = p
	return c
}
