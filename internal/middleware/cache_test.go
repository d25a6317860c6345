package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadCodec(t *testing.T) {
	hdr := http.Header{
		"Content-Type": []string{"application/json"},
		"X-Custom":     []string{"a", "b"},
	}
	body := []byte(`{"items":[]}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, body, gotBody)
}

func TestPayloadCodecRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, []byte("short")} {
		_, _, _, ok := decodePayload(bs)
		assert.False(t, ok)
	}
	// header length pointing past the payload
	bs, err := encodePayload(http.StatusOK, http.Header{}, nil)
	require.NoError(t, err)
	bs[7] = 0xFF
	_, _, _, ok := decodePayload(bs)
	assert.False(t, ok)
}
