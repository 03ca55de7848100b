package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finlens-dev/finlens/internal/encoding"
)

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	// Valid UTF-8 with accented characters should pass through unchanged.
	input := "Relevé de compte\nCafé Münster;12,50\n"
	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_Latin1(t *testing.T) {
	// Windows-1252 encoded "Relevé\n" (é = 0xE9).
	latin1Bytes := []byte{'R', 'e', 'l', 'e', 'v', 0xE9, '\n'}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Relevé\n", string(got))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	// UTF-8 BOM (0xEF 0xBB 0xBF) should be stripped.
	bom := []byte{0xEF, 0xBB, 0xBF}
	content := []byte("Statement of Account\n")
	input := append(bom, content...)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Statement of Account\n", string(got))
}

func TestDecodeText_PlainASCII(t *testing.T) {
	got := encoding.DecodeText([]byte("ICICI Bank statement of account"))
	assert.Equal(t, "ICICI Bank statement of account", got)
}

func TestDecodeText_Latin1KeywordsSurvive(t *testing.T) {
	// A Windows-1252 byte in the middle must not break keyword matching on
	// the ASCII parts around it.
	input := []byte{'I', 'C', 'I', 'C', 'I', ' ', 'B', 'a', 'n', 'k', ' ', 0xE9}

	got := encoding.DecodeText(input)
	assert.Contains(t, got, "ICICI Bank")
}

func TestDecodeText_BinaryNeverFails(t *testing.T) {
	// Binary workbook containers come through as some string; the only
	// contract is that decoding never errors.
	input := []byte{0x50, 0x4B, 0x03, 0x04, 0x00, 0xFF, 0xFE, 0x01}

	got := encoding.DecodeText(input)
	assert.NotEmpty(t, got)
}
