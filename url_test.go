package chatmarkup

import (
	"testing"
)

func TestIsURLPrefix(t *testing.T) {
	tests := []struct {
		s        string
		expected bool
	}{
		{"http://example.com", true},
		{"HTTPS://example.com", true},
		{"ftp://host", true},
		{"irc://net/#chan", true},
		{"ircs://net", true},
		{"www.example.com", true},
		{"WwW.x", true},
		{"http:/x", false},
		{"mailto:a@b", false},
		{"ww", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsURLPrefix(tt.s); got != tt.expected {
			t.Errorf("IsURLPrefix(%q) = %v, want %v", tt.s, got, tt.expected)
		}
	}
}

func TestURLEnd(t *testing.T) {
	s := "go http://a.b/c?d=1, now"
	if end := urlEnd(s, 3); s[3:end] != "http://a.b/c?d=1," {
		t.Errorf("unexpected url %q", s[3:end])
	}
	s = "http://a\x02b"
	if end := urlEnd(s, 0); s[:end] != "http://a" {
		t.Errorf("expected control byte to end url, got %q", s[:end])
	}
}
