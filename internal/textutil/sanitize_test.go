package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := [][2]string{
		{"  Loft Plan ", "Loft Plan"},
		{"a/b\\c:d*e", "a-b-c-d-e"},
		{`what?"<>|`, "what"},
		{"..hidden..", "hidden"},
		{"", ""},
		{"Casa Azul (v2)", "Casa Azul (v2)"},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt[0]); got != tt[1] {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tt[0], got, tt[1])
		}
	}
}

func TestProjectNameFromPath(t *testing.T) {
	if got := ProjectNameFromPath("/drop/Villa: North.ifc"); got != "Villa- North" {
		t.Fatalf("unexpected project name %q", got)
	}
	if got := ProjectNameFromPath("model.tar.obj"); got != "model.tar" {
		t.Fatalf("unexpected project name %q", got)
	}
}
