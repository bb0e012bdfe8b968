// Package suffix classifies hostnames by their registrable domain. The
// lookup itself is behind the Oracle interface so callers can swap the real
// public suffix list for a fixed table in tests.
package suffix

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Oracle reports the registrable (pay-level) domain of a hostname, or ""
// when none can be derived.
type Oracle interface {
	RegistrableDomain(host string) string
}

// Public consults the public suffix list embedded in x/net. The table is
// compiled into the binary and read-only, so a single value is safe to share
// across goroutines.
type Public struct{}

func (Public) RegistrableDomain(host string) string {
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return d
}

// Table is a fixed set of public suffixes. The registrable domain of a host
// is its longest matching suffix plus one more label.
type Table []string

func (t Table) RegistrableDomain(host string) string {
	best := ""
	for _, s := range t {
		if len(s) > len(best) && (host == s || strings.HasSuffix(host, "."+s)) {
			best = s
		}
	}
	if best == "" || host == best {
		return ""
	}
	rest := host[:len(host)-len(best)-1]
	if i := strings.LastIndexByte(rest, '.'); i >= 0 {
		rest = rest[i+1:]
	}
	return rest + "." + best
}
