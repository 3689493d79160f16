package bom

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDetectKnownSignatures(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		enc  Encoding
		ok   bool
	}{
		{"utf8", []byte{0xEF, 0xBB, 0xBF, 'h', 'i'}, UTF8, true},
		{"utf16le", []byte{0xFF, 0xFE, 'h', 0x00}, UTF16LE, true},
		{"utf16be", []byte{0xFE, 0xFF, 0x00, 'h'}, UTF16BE, true},
		{"plain ascii", []byte("hello"), "", false},
		{"empty", nil, "", false},
		{"partial utf8 mark", []byte{0xEF, 0xBB}, "", false},
		{"mark only", []byte{0xEF, 0xBB, 0xBF}, UTF8, true},
	}
	for _, tc := range cases {
		enc, ok := Detect(tc.data)
		if ok != tc.ok || enc != tc.enc {
			t.Fatalf("%s: got (%q, %v), want (%q, %v)", tc.name, enc, ok, tc.enc, tc.ok)
		}
	}
}

func TestParseEncoding(t *testing.T) {
	enc, err := ParseEncoding("  UTF-16LE ")
	if err != nil {
		t.Fatalf("parse utf-16le: %v", err)
	}
	if enc != UTF16LE {
		t.Fatalf("unexpected encoding: %q", enc)
	}
	if _, err := ParseEncoding("latin-1"); err == nil {
		t.Fatalf("expected error for unsupported encoding")
	}
}

func TestStripRemovesUTF8Mark(t *testing.T) {
	path := writeTemp(t, "a.txt", []byte{0xEF, 0xBB, 0xBF, 0x68, 0x69})

	enc, ok, err := Strip(path)
	if err != nil {
		t.Fatalf("strip: %v", err)
	}
	if !ok || enc != UTF8 {
		t.Fatalf("unexpected strip result: (%q, %v)", enc, ok)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(data, []byte("hi")) {
		t.Fatalf("unexpected content after strip: %q", data)
	}
}

func TestStripIsIdempotent(t *testing.T) {
	path := writeTemp(t, "a.txt", []byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00})

	if _, ok, err := Strip(path); err != nil || !ok {
		t.Fatalf("first strip: ok=%v err=%v", ok, err)
	}
	if _, ok, err := Strip(path); err != nil || ok {
		t.Fatalf("second strip should be a no-op: ok=%v err=%v", ok, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(data, []byte{'h', 0x00, 'i', 0x00}) {
		t.Fatalf("unexpected content after double strip: %v", data)
	}
}

func TestStripNoMarkIsNoOp(t *testing.T) {
	original := []byte("no mark here")
	path := writeTemp(t, "plain.txt", original)

	_, ok, err := Strip(path)
	if err != nil {
		t.Fatalf("strip: %v", err)
	}
	if ok {
		t.Fatalf("expected no removal on unmarked file")
	}
	data, _ := os.ReadFile(path)
	if !bytes.Equal(data, original) {
		t.Fatalf("unmarked file was modified: %q", data)
	}
}

func TestStripEncodingFilter(t *testing.T) {
	original := []byte{0xFF, 0xFE, 'h', 0x00}
	path := writeTemp(t, "le.txt", original)

	ok, err := StripEncoding(path, UTF8)
	if err != nil {
		t.Fatalf("strip: %v", err)
	}
	if ok {
		t.Fatalf("utf-8 filter must not strip a utf-16le mark")
	}
	data, _ := os.ReadFile(path)
	if !bytes.Equal(data, original) {
		t.Fatalf("filtered file was modified: %v", data)
	}

	ok, err = StripEncoding(path, UTF16LE)
	if err != nil {
		t.Fatalf("strip: %v", err)
	}
	if !ok {
		t.Fatalf("utf-16le filter should strip a utf-16le mark")
	}
}

func TestStripPreservesFileMode(t *testing.T) {
	path := writeTemp(t, "exec.sh", []byte{0xEF, 0xBB, 0xBF, '#', '!'})
	if err := os.Chmod(path, 0o755); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	if _, ok, err := Strip(path); err != nil || !ok {
		t.Fatalf("strip: ok=%v err=%v", ok, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Fatalf("unexpected mode after strip: %v", info.Mode().Perm())
	}
}

func TestSniffShortFiles(t *testing.T) {
	empty := writeTemp(t, "empty.txt", nil)
	if _, ok, err := Sniff(empty); err != nil || ok {
		t.Fatalf("sniff empty: ok=%v err=%v", ok, err)
	}

	tiny := writeTemp(t, "tiny.txt", []byte{0xEF})
	if _, ok, err := Sniff(tiny); err != nil || ok {
		t.Fatalf("sniff one byte: ok=%v err=%v", ok, err)
	}
}

func TestStripMissingFile(t *testing.T) {
	if _, _, err := Strip(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
