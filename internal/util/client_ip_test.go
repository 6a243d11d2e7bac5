package util

import (
	"net/http/httptest"
	"testing"
)

func TestClientIPResolution(t *testing.T) {
	trusted, err := NewTrustedProxies([]string{"172.16.0.0/12", "203.0.113.99"})
	if err != nil {
		t.Fatalf("NewTrustedProxies: %v", err)
	}

	cases := []struct {
		name    string
		peer    string
		xff     string
		realIP  string
		trusted *TrustedProxies
		want    string
	}{
		{
			name: "untrusted peer ignores forwarded headers",
			peer: "198.51.100.7:4431",
			xff:  "192.0.2.1",
			want: "198.51.100.7",
		},
		{
			name:    "trusted peer honors x-forwarded-for",
			peer:    "172.16.5.5:4431",
			xff:     "192.0.2.1",
			trusted: trusted,
			want:    "192.0.2.1",
		},
		{
			name:    "chain walk stops at first untrusted hop",
			peer:    "172.16.5.5:4431",
			xff:     "192.0.2.1, 172.16.9.9",
			trusted: trusted,
			want:    "192.0.2.1",
		},
		{
			name:    "x-real-ip fallback when xff is garbage",
			peer:    "203.0.113.99:4431",
			xff:     "not-an-ip",
			realIP:  "192.0.2.8",
			trusted: trusted,
			want:    "192.0.2.8",
		},
		{
			name:    "fully trusted chain keeps leftmost hop",
			peer:    "172.16.5.5:4431",
			xff:     "172.16.1.1, 172.16.2.2",
			trusted: trusted,
			want:    "172.16.1.1",
		},
		{
			name: "no trusted proxies falls back to socket address",
			peer: "172.16.5.5:4431",
			xff:  "192.0.2.1",
			want: "172.16.5.5",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/inquiry/submit", nil)
			req.RemoteAddr = tc.peer
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.realIP != "" {
				req.Header.Set("X-Real-IP", tc.realIP)
			}
			if got := ClientIP(req, tc.trusted); got != tc.want {
				t.Fatalf("ClientIP = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNewTrustedProxiesEntries(t *testing.T) {
	trusted, err := NewTrustedProxies([]string{"172.16.0.0/12", " 203.0.113.99 ", "2001:db8::1"})
	if err != nil || trusted == nil {
		t.Fatalf("expected valid allowlist, got trusted=%v err=%v", trusted, err)
	}
	if _, err := NewTrustedProxies([]string{"not-a-network"}); err == nil {
		t.Fatal("expected parse error for invalid entry")
	}
	trusted, err = NewTrustedProxies([]string{"", "  "})
	if err != nil || trusted != nil {
		t.Fatalf("expected nil allowlist for blank entries, got trusted=%v err=%v", trusted, err)
	}
}
