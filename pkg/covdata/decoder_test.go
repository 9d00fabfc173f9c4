package covdata

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/LambdaTest/neuron/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    []Symbol
		wantErr bool
	}{
		{
			name:    "markers and counts",
			payload: []byte("5\x1E0\x1E\x00\x1B\x15"),
			want:    []Symbol{5, 0, Neutral, Ignored, 0},
		},
		{
			name:    "trailing count without separator",
			payload: []byte("\x0012\x1E345"),
			want:    []Symbol{Neutral, 12, 345},
		},
		{
			name:    "empty separators flush nothing",
			payload: []byte("\x1E\x1E7\x1E\x1E"),
			want:    []Symbol{7},
		},
		{
			name:    "marker flushes pending digits",
			payload: []byte("42\x15"),
			want:    []Symbol{42, 0},
		},
		{
			name:    "base64 wrapped",
			payload: []byte(base64.StdEncoding.EncodeToString([]byte("3\x1E\x15\x00"))),
			want:    []Symbol{3, 0, Neutral},
		},
		{
			name:    "base64 with line breaks",
			payload: []byte("MR4V\r\nAA=="),
			want:    []Symbol{1, 0, Neutral},
		},
		{
			name:    "empty payload",
			payload: []byte{},
			want:    []Symbol{},
		},
		{
			name:    "invalid raw byte",
			payload: []byte("1\x1Ea\x00"),
			wantErr: true,
		},
		{
			name:    "invalid base64",
			payload: []byte("not base64!"),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Errorf("Decode() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_ErrorCarriesByte(t *testing.T) {
	_, err := Decode([]byte("1\x1E\x00\x07"))
	var decodeErr *errs.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, byte(0x07), decodeErr.Byte)
	assert.Equal(t, 3, decodeErr.Offset)
	assert.Contains(t, err.Error(), "0x07")
}

func TestDecode_InvalidBase64(t *testing.T) {
	_, err := Decode([]byte("not base64!"))
	var decodeErr *errs.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.True(t, decodeErr.Base64)
	assert.Equal(t, 3, decodeErr.Offset)
	assert.Equal(t, byte(' '), decodeErr.Byte)
	assert.EqualError(t, err, "invalid base64 coverage payload at offset 3")
}

func TestDecoder_Reset(t *testing.T) {
	d := &Decoder{}
	for _, b := range []byte("12") {
		require.NoError(t, d.Feed(b))
	}
	d.Reset()
	for _, b := range []byte("\x159") {
		require.NoError(t, d.Feed(b))
	}
	assert.Equal(t, []Symbol{0, 9}, d.Finish())
}

func TestNeedsBase64(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    bool
	}{
		{"plain text", []byte("QUJD"), true},
		{"text with line breaks", []byte("QU\nJD\r"), true},
		{"tab is reserved", []byte("QU\tJD"), false},
		{"vertical tab is not reserved", []byte{0x0B}, true},
		{"form feed is reserved", []byte{0x0C}, false},
		{"separator", []byte("1\x1E"), false},
		{"neutral", []byte{0x00}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsBase64(tt.payload); got != tt.want {
				t.Errorf("NeedsBase64() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEncodeDecodeClassification(t *testing.T) {
	inputs := [][]Symbol{
		{1, 0, Neutral, Ignored, 17, 17, 0},
		{Neutral, Neutral, 3, 4, 5, 6},
		{0},
		{Ignored},
		{1000000},
	}
	for _, in := range inputs {
		got, err := Decode(Encode(in))
		require.NoError(t, err)
		require.Len(t, got, len(in))
		for i := range in {
			assert.Equal(t, Classify(in[i]), Classify(got[i]), "line %d", i+1)
		}
	}
}
