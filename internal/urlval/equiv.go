package urlval

// Equal reports exact component-by-component equality, presence flags
// included. No normalization happens: URLs differing only in escape case,
// dot segments or an explicit default port are not equal.
func (u *URL) Equal(o *URL) bool { return *u == *o }

// EqualString parses raw and compares exactly.
func (u *URL) EqualString(raw string) bool { return u.Equal(Parse(raw)) }

// Equiv reports semantic equivalence: both sides are cloned, canonicalized
// (sorted tokens, no fragment, normalized path, escaped, punycoded host) and
// compared on scheme, host, path, params and query. Fragment and userinfo do
// not affect resource identity and are ignored. When exactly one side has an
// explicit port it must be the scheme's default; otherwise ports compare
// directly. The relation is symmetric and reflexive for every input.
func (u *URL) Equiv(o *URL) bool {
	a, b := equivForm(u), equivForm(o)
	if a.scheme != b.scheme || a.host != b.host || a.path != b.path ||
		a.params != b.params || a.query != b.query {
		return false
	}
	switch {
	case a.hasPort && !b.hasPort:
		def, ok := defaultPorts[a.scheme]
		return ok && a.port == def
	case b.hasPort && !a.hasPort:
		def, ok := defaultPorts[b.scheme]
		return ok && b.port == def
	default:
		return a.port == b.port
	}
}

// EquivString parses raw and compares for equivalence.
func (u *URL) EquivString(raw string) bool { return u.Equiv(Parse(raw)) }

// equivForm reduces a URL to the shape Equiv compares. Punycode is skipped
// for hostless references so the relation stays total.
func equivForm(u *URL) *URL {
	n := Parse(u.String()).Canonical().Defrag().Abspath().Escape()
	if p, err := n.Punycode(); err == nil {
		n = p
	}
	return n
}
