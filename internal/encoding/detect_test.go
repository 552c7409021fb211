package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billfold/billfold/internal/encoding"
)

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	// Valid UTF-8 with accented merchant names passes through unchanged.
	input := "Date,Description,Amount\n2024-03-01,Café Günter,12.50\n"
	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_Windows1252(t *testing.T) {
	// Windows-1252 encoded "Café Münster": é = 0xE9, ü = 0xFC.
	input := []byte{
		'C', 'a', 'f', 0xE9, ' ',
		'M', 0xFC, 'n', 's', 't', 'e', 'r', '\n',
	}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Café Münster\n", string(got))
}

func TestNewUTF8Reader_UTF8BOMStripped(t *testing.T) {
	bom := []byte{0xEF, 0xBB, 0xBF}
	content := []byte("Date,Description,Amount\n")

	r, err := encoding.NewUTF8Reader(bytes.NewReader(append(bom, content...)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, string(content), string(got))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	// UTF-16 LE with BOM for "Date\n".
	input := []byte{
		0xFF, 0xFE,
		'D', 0x00, 'a', 0x00, 't', 0x00, 'e', 0x00, '\n', 0x00,
	}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Date\n", string(got))
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	r, err := encoding.NewUTF8Reader(bytes.NewReader(nil))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, got)
}
