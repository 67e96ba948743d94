package input

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		encoding string
		input    []byte
		expected string
	}{
		{"utf-8", "utf-8", []byte("caf\xc3\xa9"), "café"},
		{"default", "", []byte("plain"), "plain"},
		{"latin1", "latin1", []byte("caf\xe9"), "café"},
		{"latin9 euro", "latin9", []byte{0xa4}, "€"},
		{"cp1252 quotes", "cp1252", []byte{0x93, 'x', 0x94}, "“x”"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(bytes.NewReader(tt.input), tt.encoding)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(got))
		})
	}
}

func TestDecode_UnknownEncoding(t *testing.T) {
	_, err := Decode(strings.NewReader("x"), "ebcdic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown input encoding "ebcdic"`)
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("caf\xe9"), 0600))

	got, err := Read(path, "latin1", nil)
	require.NoError(t, err)
	assert.Equal(t, "café", string(got))

	got, err = Read("-", "", strings.NewReader("from stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", string(got))

	_, err = Read(filepath.Join(dir, "missing.md"), "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input")
}
