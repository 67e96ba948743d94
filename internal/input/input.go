// Package input reads source documents and converts them to UTF-8.
package input

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encodings lists the accepted encoding names.
var Encodings = []string{"utf-8", "latin1", "latin9", "cp1252"}

// Lookup returns the decoder for name, nil for UTF-8.
func Lookup(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	case "latin1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "latin9", "iso-8859-15":
		return charmap.ISO8859_15, nil
	case "cp1252", "windows-1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unknown input encoding %q (valid: %s)", name, strings.Join(Encodings, ", "))
	}
}

// Decode reads all of r, converting from the named encoding.
func Decode(r io.Reader, name string) ([]byte, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

// Read reads a file, or standard input when path is "" or "-".
func Read(path, encodingName string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return Decode(stdin, encodingName)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()
	return Decode(f, encodingName)
}
