package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCapture(limit int64) *captureWriter {
	return &captureWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK, limit: limit}
}

func TestCaptureWriter_WithinLimit(t *testing.T) {
	cw := newCapture(64)

	_, err := cw.Write([]byte(`{"ok":true}`))

	require.NoError(t, err)
	assert.False(t, cw.truncated())
	assert.Equal(t, `{"ok":true}`, cw.buf.String())
}

func TestCaptureWriter_OverLimitIsTruncated(t *testing.T) {
	cw := newCapture(8)

	_, err := cw.Write([]byte("0123456789abcdef"))

	require.NoError(t, err)
	assert.True(t, cw.truncated())
	// The client still receives the full body.
	assert.Equal(t, "0123456789abcdef", cw.ResponseWriter.(*httptest.ResponseRecorder).Body.String())
	// The capture holds at most limit bytes and must not be stored.
	assert.LessOrEqual(t, int64(cw.buf.Len()), cw.limit)
}

func TestCaptureWriter_OverLimitAcrossWrites(t *testing.T) {
	cw := newCapture(8)

	_, err := cw.Write([]byte("01234"))
	require.NoError(t, err)
	_, err = cw.Write([]byte("56789"))
	require.NoError(t, err)

	assert.True(t, cw.truncated())
}

func TestCaptureWriter_ExactLimitThenMore(t *testing.T) {
	cw := newCapture(8)

	_, err := cw.Write([]byte("01234567"))
	require.NoError(t, err)
	assert.False(t, cw.truncated())

	_, err = cw.Write([]byte("8"))
	require.NoError(t, err)
	assert.True(t, cw.truncated())
}

func TestCaptureWriter_NoLimit(t *testing.T) {
	cw := newCapture(0)

	_, err := cw.Write([]byte("0123456789abcdef"))

	require.NoError(t, err)
	assert.False(t, cw.truncated())
	assert.Equal(t, "0123456789abcdef", cw.buf.String())
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(payload)

	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, string(body))
}

func TestDecodePayload_RejectsShortInput(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{1, 2, 3})
	assert.False(t, ok)
}
