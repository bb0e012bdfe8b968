package urlval

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeparam(t *testing.T) {
	const base = "http://testing.com/page"
	cases := []struct {
		in   string
		want string
	}{
		{"?a=1&b=2&c=3&d=4", "?a=1&b=2&d=4"}, // keeps order
		{"?a=1&&&&&&b=2", "?a=1&b=2"},        // collapses excess &'s
		{";a=1;b=2;c=3;d=4", ";a=1;b=2;d=4"},
		{";a=1;;;;;;b=2", ";a=1;b=2"},
		{";foo_c=2", ";foo_c=2"}, // not overzealous
		{"?foo_c=2", "?foo_c=2"},
		{"????foo=2", "?foo=2"}, // strips leading ?'s
		{";foo", ";foo"},
		{"?foo", "?foo"},
		{"", ""},
	}
	for _, tc := range cases {
		got := Parse(base + tc.in).Deparam([]string{"c"}).String()
		require.Equal(t, base+tc.want, got, "deparam of %q", base+tc.in)
	}
}

func TestDeparamCaseInsensitive(t *testing.T) {
	const base = "http://testing.com/page"
	for _, q := range []string{"?hELLo=2", "?HELLo=2"} {
		got := Parse(base + q).Deparam([]string{"HeLlO"}).String()
		require.Equal(t, base, got)
	}
}

func TestFilterParams(t *testing.T) {
	dropOdd := func(_, value string) bool {
		n, err := strconv.Atoi(value)
		return err == nil && n%2 == 1
	}
	const base = "http://testing.com/page"
	cases := []struct {
		in   string
		want string
	}{
		{"?a=1&b=2", "?b=2"},
		{";a=1;b=2", ";b=2"},
	}
	for _, tc := range cases {
		got := Parse(base + tc.in).FilterParams(dropOdd).String()
		require.Equal(t, base+tc.want, got)
	}
}

func TestCanonical(t *testing.T) {
	const base = "http://testing.com/"
	cases := []struct {
		in   string
		want string
	}{
		{"?b=2&a=1&c=3", "?a=1&b=2&c=3"},
		{";b=2;a=1;c=3", ";a=1;b=2;c=3"},
		{"?b=2&a=1&a=3", "?a=1&a=3&b=2"}, // duplicate keys survive
	}
	for _, tc := range cases {
		u := Parse(base + tc.in).Canonical()
		require.Equal(t, base+tc.want, u.String())
		require.Equal(t, base+tc.want, u.Canonical().String(), "canonical not idempotent")
	}
}
