package logging

import "testing"

func TestMaskHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		value  string
		want   string
	}{
		{"authorization keeps last four", "Authorization", "Bearer abcdef1234", "****1234"},
		{"cookie keeps last four", "Cookie", "token=eyJabc", "****Jabc"},
		{"short value fully masked", "Authorization", "ab", "****"},
		{"password fully redacted", "X-Password", "hunter2", "[REDACTED]"},
		{"other headers unchanged", "Content-Type", "text/html", "text/html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaskHeader(tt.header, tt.value)
			if got != tt.want {
				t.Errorf("MaskHeader(%q, %q) = %q, want %q", tt.header, tt.value, got, tt.want)
			}
		})
	}
}

func TestMaskToken(t *testing.T) {
	if got := MaskToken("eyJhbGciOiJIUzI1NiJ9"); got != "****NiJ9" {
		t.Errorf("MaskToken() = %q, want ****NiJ9", got)
	}
	if got := MaskToken("ab"); got != "****" {
		t.Errorf("MaskToken(short) = %q, want ****", got)
	}
}
