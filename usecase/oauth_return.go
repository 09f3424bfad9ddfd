package usecase

import (
	"net/url"
	"strings"
)

// ParseReturnToken extracts access_token from the fragment of an implicit-flow return URL.
func ParseReturnToken(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Fragment == "" {
		return "", false
	}
	values, err := url.ParseQuery(u.Fragment)
	if err != nil {
		return "", false
	}
	token := values.Get("access_token")
	return token, token != ""
}

// StripFragment returns rawURL without its fragment, for replacing the visible address.
func StripFragment(rawURL string) string {
	if i := strings.IndexByte(rawURL, '#'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
