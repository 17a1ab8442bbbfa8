package banner

import (
	"strings"
	"testing"
)

func TestView(t *testing.T) {
	tests := []struct {
		kind  string
		glyph string
	}{
		{"success", "✓"},
		{"error", "✗"},
		{"info", "●"},
	}
	for _, tt := range tests {
		v := View("Logged out successfully", tt.kind, 80)
		if !strings.Contains(v, "Logged out successfully") {
			t.Errorf("%s banner should contain the text", tt.kind)
		}
		if !strings.Contains(v, tt.glyph) {
			t.Errorf("%s banner should contain %q", tt.kind, tt.glyph)
		}
	}
}

func TestViewEmpty(t *testing.T) {
	if View("", "info", 80) != "" {
		t.Error("empty text should render nothing")
	}
}
