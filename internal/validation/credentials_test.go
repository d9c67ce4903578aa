package validation

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{
			name:  "plain address",
			email: "user@example.com",
			valid: true,
		},
		{
			name:  "subdomain",
			email: "user@mail.example.co.uk",
			valid: true,
		},
		{
			name:  "missing at sign",
			email: "user.example.com",
			valid: false,
		},
		{
			name:  "missing domain dot",
			email: "user@localhost",
			valid: false,
		},
		{
			name:  "contains space",
			email: "us er@example.com",
			valid: false,
		},
		{
			name:  "empty string",
			email: "",
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidEmail(tt.email)
			if got != tt.valid {
				t.Fatalf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.valid)
			}
		})
	}
}

func TestIsValidPassword(t *testing.T) {
	if IsValidPassword("short77") {
		t.Fatalf("7-character password must be rejected")
	}
	if !IsValidPassword("eight888") {
		t.Fatalf("8-character password must be accepted")
	}
}
