package cmd

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestFormatStatusWithColor(t *testing.T) {
	// Force color output off so assertions see plain text.
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	cases := []struct {
		in   string
		want string
	}{
		{"ok", "ok"},
		{"OK", "OK"},
		{"completed", "completed"},
		{"failed", "failed"},
		{"anything-else", "anything-else"},
	}
	for _, tc := range cases {
		got := formatStatusWithColor(tc.in)
		if !strings.Contains(got, tc.want) {
			t.Errorf("formatStatusWithColor(%q) = %q, want to contain %q", tc.in, got, tc.want)
		}
	}
}
