package datauri

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	// Not a real PNG, but the codec never inspects the bytes.
	raw := []byte{0x89, 'P', 'N', 'G', 0x00, 0x01, 0x02, 0xff}
	uri := FromBytes(raw)
	require.True(t, IsImage(uri))

	path, err := DecodeToTempFile(uri)
	require.NoError(t, err)
	defer os.Remove(path)

	again, err := EncodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, uri, again)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, raw, written)
}

func TestDecodeToTempFile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		uri     string
		wantErr error
	}{
		{
			name:    "no comma",
			uri:     "data:image/png;base64",
			wantErr: ErrMalformed,
		},
		{
			name:    "empty string",
			uri:     "",
			wantErr: ErrMalformed,
		},
		{
			name:    "bad base64",
			uri:     "data:image/png;base64,&&not-base64&&",
			wantErr: ErrInvalidEncoding,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path, err := DecodeToTempFile(tt.uri)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, path)
		})
	}
}

func TestDecodeToTempFile_UniquePaths(t *testing.T) {
	t.Parallel()

	uri := FromBytes([]byte("pixels"))
	a, err := DecodeToTempFile(uri)
	require.NoError(t, err)
	defer os.Remove(a)
	b, err := DecodeToTempFile(uri)
	require.NoError(t, err)
	defer os.Remove(b)

	assert.NotEqual(t, a, b)
}

func TestEncodeFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := EncodeFile(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}

func TestIsImage(t *testing.T) {
	t.Parallel()

	assert.True(t, IsImage("data:image/png;base64,"+base64.StdEncoding.EncodeToString([]byte("x"))))
	assert.True(t, IsImage("data:image/jpeg;base64,abcd"))
	assert.False(t, IsImage("data:image/png,abcd"))
	assert.False(t, IsImage("hello base64, world"))
}
