// Package bom owns byte order mark detection and removal.
//
// Ownership boundary:
// - the fixed signature table
// - sniffing a file's leading bytes
// - rewriting a file without its mark
//
// Traversal and run-level reporting live elsewhere.
package bom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Encoding labels for the signatures this tool recognizes.
type Encoding string

const (
	UTF8    Encoding = "utf-8"
	UTF16LE Encoding = "utf-16le"
	UTF16BE Encoding = "utf-16be"
)

// MaxMarkLen bounds how many leading bytes a sniff needs.
const MaxMarkLen = 4

type signature struct {
	enc  Encoding
	mark []byte
}

// Longest prefix first so multi-byte marks win before shorter pairs are tested.
var signatures = []signature{
	{UTF8, []byte{0xEF, 0xBB, 0xBF}},
	{UTF16BE, []byte{0xFE, 0xFF}},
	{UTF16LE, []byte{0xFF, 0xFE}},
}

// ParseEncoding validates a user-supplied encoding label.
func ParseEncoding(raw string) (Encoding, error) {
	switch Encoding(strings.ToLower(strings.TrimSpace(raw))) {
	case UTF8:
		return UTF8, nil
	case UTF16LE:
		return UTF16LE, nil
	case UTF16BE:
		return UTF16BE, nil
	default:
		return "", fmt.Errorf("unsupported encoding %q (expected utf-8, utf-16le or utf-16be)", raw)
	}
}

// Mark returns the signature bytes for the encoding, or nil when unknown.
func (e Encoding) Mark() []byte {
	for _, sig := range signatures {
		if sig.enc == e {
			return append([]byte(nil), sig.mark...)
		}
	}
	return nil
}

// Detect matches the leading bytes of b against the signature table.
func Detect(b []byte) (Encoding, bool) {
	for _, sig := range signatures {
		if bytes.HasPrefix(b, sig.mark) {
			return sig.enc, true
		}
	}
	return "", false
}

// Sniff reads up to MaxMarkLen leading bytes of the file at path and
// reports the detected mark, if any.
func Sniff(path string) (Encoding, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, fmt.Errorf("sniff %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, MaxMarkLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", false, fmt.Errorf("sniff %s: %w", path, err)
	}
	enc, ok := Detect(head[:n])
	return enc, ok, nil
}

// Strip removes any recognized mark from the file at path. It reports the
// encoding that was stripped and whether a removal occurred. Content after
// the mark is preserved byte for byte; no transcoding happens.
func Strip(path string) (Encoding, bool, error) {
	return strip(path, "")
}

// StripEncoding removes only the named encoding's mark. A file carrying a
// different mark is left untouched.
func StripEncoding(path string, enc Encoding) (bool, error) {
	_, ok, err := strip(path, enc)
	return ok, err
}

func strip(path string, only Encoding) (Encoding, bool, error) {
	enc, ok, err := Sniff(path)
	if err != nil {
		return "", false, err
	}
	if !ok || (only != "" && enc != only) {
		return "", false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", false, fmt.Errorf("stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", path, err)
	}

	// The file may have changed between sniff and read; re-test the prefix
	// on the bytes actually being rewritten.
	enc, ok = Detect(data)
	if !ok || (only != "" && enc != only) {
		return "", false, nil
	}
	if err := os.WriteFile(path, data[len(enc.Mark()):], info.Mode().Perm()); err != nil {
		return "", false, fmt.Errorf("rewrite %s: %w", path, err)
	}
	return enc, true, nil
}
