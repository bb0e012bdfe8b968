package urlval

// Pipeline threads a URL through a chain of transformations, remembering the
// first error so fallible steps can sit anywhere in the chain:
//
//	u, err := urlval.Parse(raw).Pipe().Canonical().Defrag().Punycode().URL()
type Pipeline struct {
	u   *URL
	err error
}

// Pipe starts a pipeline at u.
func (u *URL) Pipe() *Pipeline { return &Pipeline{u: u} }

func (p *Pipeline) step(f func(*URL) *URL) *Pipeline {
	if p.err == nil {
		p.u = f(p.u)
	}
	return p
}

func (p *Pipeline) fallible(f func(*URL) (*URL, error)) *Pipeline {
	if p.err == nil {
		u, err := f(p.u)
		if err != nil {
			p.err = err
		} else {
			p.u = u
		}
	}
	return p
}

func (p *Pipeline) Canonical() *Pipeline    { return p.step((*URL).Canonical) }
func (p *Pipeline) Defrag() *Pipeline       { return p.step((*URL).Defrag) }
func (p *Pipeline) Deuserinfo() *Pipeline   { return p.step((*URL).Deuserinfo) }
func (p *Pipeline) Abspath() *Pipeline      { return p.step((*URL).Abspath) }
func (p *Pipeline) Escape() *Pipeline       { return p.step((*URL).Escape) }
func (p *Pipeline) EscapeStrict() *Pipeline { return p.step((*URL).EscapeStrict) }
func (p *Pipeline) Unescape() *Pipeline     { return p.step((*URL).Unescape) }
func (p *Pipeline) Sanitize() *Pipeline     { return p.step((*URL).Sanitize) }
func (p *Pipeline) Punycode() *Pipeline     { return p.fallible((*URL).Punycode) }
func (p *Pipeline) Unpunycode() *Pipeline   { return p.fallible((*URL).Unpunycode) }

func (p *Pipeline) Deparam(names []string) *Pipeline {
	return p.step(func(u *URL) *URL { return u.Deparam(names) })
}

func (p *Pipeline) FilterParams(drop func(name, value string) bool) *Pipeline {
	return p.step(func(u *URL) *URL { return u.FilterParams(drop) })
}

// URL ends the chain, returning the transformed value or the first error.
func (p *Pipeline) URL() (*URL, error) { return p.u, p.err }
