// Package canon reduces a raw URL to the canonical text and hash used as
// the dedup key.
package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"linksift/internal/urlval"
)

// Tracking parameters that never change which resource a URL names.
var stripKeys = map[string]struct{}{
	"fbclid":  {},
	"gclid":   {},
	"msclkid": {},
}

func dropTracking(name, _ string) bool {
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "utm_") {
		return true
	}
	_, ok := stripKeys[lower]
	return ok
}

// Canonicalize returns the canonical form of raw and the sha256 hex of that
// form. Tracking parameters, fragment and userinfo are stripped, the
// remaining tokens sorted, the path normalized and escaped, and the host
// punycoded when there is one. Two URLs naming the same resource come out
// byte-identical.
func Canonicalize(raw string) (canonicalURL string, canonicalHash string) {
	// Escaping must precede the sort: it can rewrite a token (%7a -> z),
	// which would change the token's position after the fact.
	u := urlval.Parse(raw).
		FilterParams(dropTracking).
		Deuserinfo().
		Defrag().
		Sanitize().
		Canonical()
	if p, err := u.Punycode(); err == nil {
		u = p
	}
	canonicalURL = u.String()
	h := sha256.Sum256([]byte(canonicalURL))
	return canonicalURL, hex.EncodeToString(h[:])
}
