package browser

import "testing"

func TestTargetForEscapesQuery(t *testing.T) {
	s := New("Shop", "https://shop.example/search?q=%s", nil)

	tests := []struct {
		input string
		want  string
	}{
		{"usb charger", "https://shop.example/search?q=usb+charger"},
		{"50% off & more", "https://shop.example/search?q=50%25+off+%26+more"},
		{"plain", "https://shop.example/search?q=plain"},
	}
	for _, tt := range tests {
		if got := s.targetFor(tt.input); got != tt.want {
			t.Errorf("targetFor(%q): got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTargetForFixedURL(t *testing.T) {
	s := New("Shop", "https://shop.example/deals", nil)
	if got := s.targetFor("ignored"); got != "https://shop.example/deals" {
		t.Errorf("fixed URL changed: %q", got)
	}
}
