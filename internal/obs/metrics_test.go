package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                              "/",
		"/metrics":                      "/metrics",
		"/v1/access/catalog":            "/v1/access/catalog",
		"/v1/access/redirect?fresh=1":   "/v1/access/redirect",
		"/v1/session/selection":         "/v1/session/selection",
		"/v1/session/selection?foo=bar": "/v1/session/selection",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
