package browser

import "testing"

func TestOpenRejectsNonHTTP(t *testing.T) {
	tests := []string{
		"file:///etc/passwd",
		"javascript:alert(1)",
		"ftp://example.com",
		"",
	}
	for _, u := range tests {
		if err := Open(u); err == nil {
			t.Errorf("Open(%q): expected error, got nil", u)
		}
	}
}

func TestOpenCommandPerOS(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "open"},
		{"linux", "xdg-open"},
		{"windows", "rundll32"},
		{"freebsd", "xdg-open"},
	}
	for _, tt := range tests {
		name, args := openCommand(tt.goos, "https://example.com")
		if name != tt.want {
			t.Errorf("openCommand(%q) = %q, want %q", tt.goos, name, tt.want)
		}
		if args[len(args)-1] != "https://example.com" {
			t.Errorf("openCommand(%q): URL not passed through: %v", tt.goos, args)
		}
	}
}
