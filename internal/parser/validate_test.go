package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"http", "http://example.com", true},
		{"http with www", "http://www.example.com", true},
		{"http with path", "http://example.com/path", true},
		{"http with query", "http://example.com/path?query=value", true},
		{"http with fragment", "http://example.com/path#fragment", true},
		{"https", "https://example.com", true},
		{"https subdomain", "https://subdomain.example.com", true},
		{"https with port", "https://example.com:8080", true},
		{"upper case scheme", "HTTPS://Example.COM", true},
		{"surrounding whitespace", "  https://example.com  ", true},
		{"localhost", "http://localhost", true},
		{"localhost with port", "http://localhost:3000", true},
		{"localhost https", "https://localhost:8080", true},
		{"localhost upper case", "http://LOCALHOST", true},
		{"ftp", "ftp://ftp.example.com", true},
		{"ftps", "ftps://secure.example.com", true},
		{"mailto", "mailto:test@example.com", true},
		{"mailto other domain", "mailto:user@domain.org", true},
		{"encoded spaces", "https://example.com/path%20with%20encoded%20spaces", true},
		{"encoded query", "https://example.com/path?q=hello%20world", true},
		{"international domain", "https://例え.テスト", true},
		{"punycode", "https://xn--r8jz45g.xn--zckzah", true},
		{"non-ascii path", "https://example.com/café", true},

		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"not a url", "not-a-url", false},
		{"http without host", "http://", false},
		{"https without host", "https://", false},
		{"single dot host", "http://.", false},
		{"double dot host", "http://..", false},
		{"double dot host with slash", "http://../", false},
		{"query only", "http://?", false},
		{"fragment only", "http://#", false},
		{"space in host", "http:// shouldfail.com", false},
		{"space in path", "https://example.com/path with spaces", false},
		{"space in query", "https://example.com/path?q=hello world", false},
		{"host without dot", "http://intranet/page", false},
		{"javascript", "javascript:alert(1)", false},
		{"data", "data:text/html,<script>alert(1)</script>", false},
		{"file", "file:///etc/passwd", false},
		{"relative path", "/about", false},
		{"ftp without host", "ftp://", false},
		{"ftps without host", "ftps:///pub", false},
		{"mailto without address", "mailto:", false},
		{"stray percent in path", "https://example.com/%zz", true},
		{"trailing percent", "https://example.com/100%", true},
		{"percent in host", "https://ex%zzample.com", false},
		{"missing slashes", "http:example.com", true},
		{"single slash", "https:/example.com/a", true},
		{"no host after scheme", "http:", false},
		{"max port", "https://example.com:65535", true},
		{"port out of range", "https://example.com:99999", false},
		{"ftp port out of range", "ftp://files.example.com:70000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateURL(tt.input), "ValidateURL(%q)", tt.input)
		})
	}
}

func TestValidateURL_LongURL(t *testing.T) {
	long := "https://example.com/" + strings.Repeat("a", 2000)
	assert.True(t, ValidateURL(long))
}

func TestValidateURL_Idempotent(t *testing.T) {
	inputs := []string{
		"https://example.com", "javascript:alert(1)", "", "http://localhost", "http://..", "mailto:a@b.c",
	}
	for _, in := range inputs {
		first := ValidateURL(in)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, ValidateURL(in), "ValidateURL(%q) changed between calls", in)
		}
	}
}
