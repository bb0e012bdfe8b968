package suffix

import "testing"

func TestTable(t *testing.T) {
	oracle := Table{"com", "co.uk"}
	cases := []struct {
		host string
		want string
	}{
		{"foo.com", "foo.com"},
		{"bar.foo.com", "foo.com"},
		{"a.b.foo.co.uk", "foo.co.uk"},
		{"com", ""},         // a bare suffix has no registrable domain
		{"example.org", ""}, // unknown suffix
	}
	for _, tc := range cases {
		if got := oracle.RegistrableDomain(tc.host); got != tc.want {
			t.Fatalf("RegistrableDomain(%q) = %q, want %q", tc.host, got, tc.want)
		}
	}
}

func TestPublic(t *testing.T) {
	oracle := Public{}
	if got := oracle.RegistrableDomain("bar.foo.com"); got != "foo.com" {
		t.Fatalf("expected foo.com, got %q", got)
	}
	if got := oracle.RegistrableDomain("com"); got != "" {
		t.Fatalf("expected empty for bare suffix, got %q", got)
	}
}
