package export

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{name: "clean", input: "My Project", max: 0, want: "My Project"},
		{name: "slashes", input: "a/b\\c", max: 0, want: "a_b_c"},
		{name: "control chars", input: "a\x00b\nc", max: 0, want: "abc"},
		{name: "truncated", input: "abcdefgh", max: 4, want: "abcd"},
		{name: "allowed punctuation", input: "Take 2 (v1.3), final", max: 0, want: "Take 2 (v1.3), final"},
		{name: "trimmed", input: "  padded  ", max: 0, want: "padded"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeName(tc.input, tc.max); got != tc.want {
				t.Fatalf("SanitizeName(%q, %d) = %q, want %q", tc.input, tc.max, got, tc.want)
			}
		})
	}
}

func TestValidateOutputDir(t *testing.T) {
	dir := t.TempDir()

	if err := ValidateOutputDir(dir); err != nil {
		t.Fatalf("valid dir rejected: %v", err)
	}
	if err := ValidateOutputDir(""); err == nil {
		t.Fatal("empty dir accepted")
	}
	if err := ValidateOutputDir(dir + "/../elsewhere"); err == nil {
		t.Fatal("traversal accepted")
	}
	if err := ValidateOutputDir(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("nonexistent dir accepted")
	}

	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateOutputDir(file); err == nil {
		t.Fatal("regular file accepted as dir")
	}
}
