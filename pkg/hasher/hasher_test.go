package hasher

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
)

func writeFile(t *testing.T, fs afero.Fs, path string, data []byte) {
	t.Helper()
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
}

func TestSum_SHA256(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/data/test.txt", []byte("hello"))

	h := New(fs, SHA256)
	sum, err := h.Sum("/data/test.txt")
	if err != nil {
		t.Fatalf("Sum() error = %v", err)
	}

	// sha256("hello")
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if sum != want {
		t.Errorf("Sum() = %s, want %s", sum, want)
	}
}

func TestSum_Consistent(t *testing.T) {
	for _, algo := range []Algorithm{SHA256, XXHash} {
		fs := afero.NewMemMapFs()
		writeFile(t, fs, "/a", []byte("test content for hashing"))
		writeFile(t, fs, "/b", []byte("test content for hashing"))
		writeFile(t, fs, "/c", []byte("other content"))

		h := New(fs, algo)
		a, err := h.Sum("/a")
		if err != nil {
			t.Fatalf("Sum(/a) error = %v", err)
		}
		b, err := h.Sum("/b")
		if err != nil {
			t.Fatalf("Sum(/b) error = %v", err)
		}
		c, err := h.Sum("/c")
		if err != nil {
			t.Fatalf("Sum(/c) error = %v", err)
		}

		if a != b {
			t.Errorf("%s: same content should produce same digest", algo)
		}
		if a == c {
			t.Errorf("%s: different content should produce different digests", algo)
		}
	}
}

func TestSum_NonExistentFile(t *testing.T) {
	h := New(afero.NewMemMapFs(), SHA256)
	if _, err := h.Sum("/non/existent/file.txt"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestSameContent(t *testing.T) {
	fs := afero.NewMemMapFs()
	big := bytes.Repeat([]byte("x"), compareBufferSize*2)
	bigOther := append(bytes.Repeat([]byte("x"), compareBufferSize*2-1), 'y')

	writeFile(t, fs, "/big1", big)
	writeFile(t, fs, "/big2", big)
	writeFile(t, fs, "/big3", bigOther)
	writeFile(t, fs, "/longer", append(big, 'z'))
	writeFile(t, fs, "/empty1", nil)
	writeFile(t, fs, "/empty2", nil)

	h := New(fs, XXHash)
	cases := []struct {
		a, b string
		want bool
	}{
		{"/big1", "/big2", true},
		{"/big1", "/big3", false},
		{"/big1", "/longer", false},
		{"/longer", "/big1", false},
		{"/empty1", "/empty2", true},
		{"/empty1", "/big1", false},
	}
	for _, tc := range cases {
		got, err := h.SameContent(tc.a, tc.b)
		if err != nil {
			t.Fatalf("SameContent(%s, %s) error = %v", tc.a, tc.b, err)
		}
		if got != tc.want {
			t.Errorf("SameContent(%s, %s) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestParseAlgorithm(t *testing.T) {
	if a, err := ParseAlgorithm(""); err != nil || a != SHA256 {
		t.Errorf("ParseAlgorithm(\"\") = %v, %v", a, err)
	}
	if a, err := ParseAlgorithm("xxhash"); err != nil || a != XXHash || a.Strong() {
		t.Errorf("ParseAlgorithm(xxhash) = %v, %v", a, err)
	}
	if _, err := ParseAlgorithm("md5"); err == nil {
		t.Error("Expected error for unknown algorithm")
	}
}
