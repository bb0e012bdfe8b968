package urlval

import (
	"sort"
	"strings"
)

// filterTokens drops every delimited token for which drop(name, value)
// returns true. The token is split on its first '='; a token without one has
// an empty value. Empty tokens are skipped during the rejoin.
func filterTokens(s string, delim string, drop func(name, value string) bool) string {
	if s == "" {
		return ""
	}
	toks := strings.Split(s, delim)
	kept := toks[:0]
	for _, tok := range toks {
		if tok == "" {
			continue
		}
		name, value, _ := strings.Cut(tok, "=")
		if drop(name, value) {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, delim)
}

func sortTokens(s string, delim string) string {
	if s == "" {
		return ""
	}
	toks := strings.Split(s, delim)
	sort.Strings(toks)
	return strings.Join(toks, delim)
}

// FilterParams returns a copy with every query and params token for which
// drop(name, value) is true removed.
func (u *URL) FilterParams(drop func(name, value string) bool) *URL {
	c := u.clone()
	c.query = filterTokens(c.query, "&", drop)
	c.params = filterTokens(c.params, ";", drop)
	return c
}

// Deparam strips tokens whose name matches any of names, case-insensitively.
func (u *URL) Deparam(names []string) *URL {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return u.FilterParams(func(name, _ string) bool {
		_, ok := set[strings.ToLower(name)]
		return ok
	})
}

// Canonical returns a copy with query and params tokens sorted by the byte
// order of the whole "name=value" text. Duplicate names survive as distinct
// tokens.
func (u *URL) Canonical() *URL {
	c := u.clone()
	c.query = sortTokens(c.query, "&")
	c.params = sortTokens(c.params, ";")
	return c
}
