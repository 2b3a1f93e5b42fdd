package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{"foo@example.com", "a.b+c@sub.domain.org"}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("expected %q to be valid", email)
		}
	}

	invalid := []string{"", "foo", "foo@", "@example.com", "foo@example"}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}

func TestSanitizeInputStripsMarkup(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  plain text  ", "plain text"},
		{"<script>alert(1)</script>safe", "safe"},
		{"<b>bold</b> claim", "bold claim"},
		{"a \x00null", "a null"},
		{"1 < 2", "1 < 2"},
	}
	for _, tt := range tests {
		if got := SanitizeInput(tt.in); got != tt.want {
			t.Errorf("SanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
