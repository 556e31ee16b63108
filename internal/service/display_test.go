package service

import "testing"

func TestDisplayPhone(t *testing.T) {
	tests := map[string]struct {
		stored string
		want   string
	}{
		"canonical uk mobile":    {stored: "+447400123456", want: "07400 123456"},
		"empty passes through":   {stored: "", want: ""},
		"garbage passes through": {stored: "not-a-number", want: "not-a-number"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := DisplayPhone(tt.stored); got != tt.want {
				t.Fatalf("DisplayPhone(%q) = %q, want %q", tt.stored, got, tt.want)
			}
		})
	}
}

func TestDisplayWebsite(t *testing.T) {
	if got := DisplayWebsite("example.co.uk"); got != "https://example.co.uk" {
		t.Fatalf("DisplayWebsite = %q", got)
	}
	if got := DisplayWebsite(""); got != "" {
		t.Fatalf("DisplayWebsite(\"\") = %q, want empty", got)
	}
}
