package parser

import (
	"net/url"
	"strconv"
	"strings"
)

var allowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"ftp":    true,
	"ftps":   true,
	"mailto": true,
}

// ValidateURL reports whether candidate is an acceptable, safe link target.
// Only http, https, ftp, ftps and mailto URLs pass; every other scheme
// (javascript:, data:, file:, ...) is rejected. The check is purely
// syntactic and never touches the network.
func ValidateURL(candidate string) bool {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return false
	}
	// Spaces must be encoded.
	if strings.Contains(trimmed, " ") {
		return false
	}

	u, err := parseLenient(trimmed)
	if err != nil {
		return false
	}
	if !allowedSchemes[u.Scheme] {
		return false
	}
	if !validPort(u.Port()) {
		return false
	}

	switch u.Scheme {
	case "http", "https":
		return validWebHost(u.Hostname())
	case "ftp", "ftps":
		return u.Hostname() != ""
	default:
		return u.Host != "" || u.Opaque != "" || u.Path != ""
	}
}

// parseLenient parses raw the way browsers read a link: a "%" that does not
// start an escape is literal, and http(s) URLs may omit or repeat the slashes
// before the host ("http:example.com").
func parseLenient(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		if u, err = url.Parse(escapeStrayPercents(raw)); err != nil {
			return nil, err
		}
		raw = escapeStrayPercents(raw)
	}
	if (u.Scheme == "http" || u.Scheme == "https") && u.Host == "" {
		rest := strings.TrimLeft(raw[len(u.Scheme)+1:], `/\`)
		if rest == "" {
			return u, nil
		}
		return url.Parse(u.Scheme + "://" + rest)
	}
	return u, nil
}

func escapeStrayPercents(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && (i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2])) {
			sb.WriteString("%25")
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func validPort(port string) bool {
	if port == "" {
		return true
	}
	n, err := strconv.Atoi(port)
	return err == nil && n <= 65535
}

func validWebHost(host string) bool {
	if host == "" || host == "." || host == ".." || strings.HasPrefix(host, "./") {
		return false
	}
	if strings.Contains(host, "%") {
		return false
	}
	return strings.Contains(host, ".") || strings.EqualFold(host, "localhost")
}
