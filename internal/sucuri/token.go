package sucuri

import "strings"

// TokenPrefix starts every cookie the proxy issues.
const TokenPrefix = "sucuri_cloudproxy_uuid_"

// Token is the cookie string produced by the site's challenge script,
// e.g. "sucuri_cloudproxy_uuid_0c1d2e3f4=7a3f9;path=/;max-age=86400".
// It is valid for one logical request sequence and never persisted.
type Token string

// Valid reports whether the token carries the proxy's prefix.
func (t Token) Valid() bool {
	return strings.HasPrefix(string(t), TokenPrefix)
}

// Cookie returns the name=value pair suitable for a Cookie request header.
func (t Token) Cookie() string {
	s := string(t)
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Name returns the cookie name without its value. Safe to log.
func (t Token) Name() string {
	c := t.Cookie()
	if i := strings.IndexByte(c, '='); i >= 0 {
		return c[:i]
	}
	return c
}
