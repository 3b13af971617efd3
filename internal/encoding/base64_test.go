package encoding

import (
	"encoding/base64"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_KnownVectors(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"f", "Zg=="},
		{"fo", "Zm8="},
		{"foo", "Zm9v"},
		{"foob", "Zm9vYg=="},
		{"fooba", "Zm9vYmE="},
		{"foobar", "Zm9vYmFy"},
		{"\xff\xfe\xfd", "//79"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode([]byte(tt.in)))
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for n := 0; n <= 256; n++ {
		buf := make([]byte, n)
		rng.Read(buf)

		encoded := Encode(buf)
		assert.Len(t, encoded, EncodedLen(n), "length for %d bytes", n)
		assert.Equal(t, base64.StdEncoding.EncodedLen(n), EncodedLen(n))

		decoded, err := base64.StdEncoding.DecodeString(encoded)
		require.NoError(t, err, "decode %d bytes", n)
		assert.Equal(t, buf, decoded)
	}
}

func TestEncode_Deterministic(t *testing.T) {
	in := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	assert.Equal(t, Encode(in), Encode(in))
}

func TestDataURL(t *testing.T) {
	got := DataURL("image/png", []byte("foo"))
	assert.Equal(t, "data:image/png;base64,Zm9v", got)
	assert.Equal(t, "Zm9v", StripDataURL(got))
}

func TestStripDataURL(t *testing.T) {
	assert.Equal(t, "Zm9v", StripDataURL("Zm9v"))
	assert.Equal(t, "Zm9v", StripDataURL("data:image/jpeg;base64,Zm9v"))
	assert.Equal(t, "data:text/plain,hello", StripDataURL("data:text/plain,hello"))
	assert.Equal(t, "", StripDataURL(""))
}
