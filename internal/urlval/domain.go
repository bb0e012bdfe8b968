package urlval

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/idna"

	"linksift/internal/suffix"
)

// ErrNoHost marks punycode operations attempted on a hostless reference.
var ErrNoHost = errors.New("no_host")

// Punycode returns a copy with the host converted to its ASCII-compatible
// (IDNA) encoding. Applying it to an already-ASCII host is a no-op. A
// reference without a host cannot be punycoded.
func (u *URL) Punycode() (*URL, error) {
	if u.host == "" {
		return nil, fmt.Errorf("punycode %s: %w", u, ErrNoHost)
	}
	h, err := idna.ToASCII(u.host)
	if err != nil {
		return nil, fmt.Errorf("punycode %s: %w", u, err)
	}
	c := u.clone()
	c.host = h
	return c, nil
}

// Unpunycode is the inverse of Punycode, restoring the Unicode host.
func (u *URL) Unpunycode() (*URL, error) {
	if u.host == "" {
		return nil, fmt.Errorf("unpunycode %s: %w", u, ErrNoHost)
	}
	h, err := idna.ToUnicode(u.host)
	if err != nil {
		return nil, fmt.Errorf("unpunycode %s: %w", u, err)
	}
	c := u.clone()
	c.host = h
	return c, nil
}

// PLD returns the pay-level (registrable) domain of the host according to
// the given oracle, or "" for a hostless reference.
func (u *URL) PLD(o suffix.Oracle) string {
	if u.host == "" {
		return ""
	}
	return o.RegistrableDomain(u.host)
}

// TLD is the public suffix under the pay-level domain: the PLD with its
// first label dropped.
func (u *URL) TLD(o suffix.Oracle) string {
	pld := u.PLD(o)
	if i := strings.IndexByte(pld, '.'); i >= 0 {
		return pld[i+1:]
	}
	return ""
}
