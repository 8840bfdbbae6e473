package framing_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ruturajs29/FileByte/framing"
)

func TestWriteFramedBody_BracketsWithSentinels(t *testing.T) {
	var out bytes.Buffer
	n, err := framing.WriteFramedBody(&out, bytes.NewReader([]byte("hi\n")))
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Equal(t, "FILE_START\r\nhi\nFILE_END\r\n", out.String())
}

func TestWriteFramedBody_EmptyBody(t *testing.T) {
	var out bytes.Buffer
	n, err := framing.WriteFramedBody(&out, bytes.NewReader(nil))
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
	assert.Equal(t, "FILE_START\r\nFILE_END\r\n", out.String())
}

func TestWriteFramedBody_PayloadLargerThanChunkSize(t *testing.T) {
	payload := bytes.Repeat([]byte{'x'}, 8193)
	var out bytes.Buffer
	n, err := framing.WriteFramedBody(&out, bytes.NewReader(payload), framing.WithChunkSize(8192))
	require.NoError(t, err)
	assert.EqualValues(t, len(payload), n)
}

func TestReadFramedBody_DiscardsNoiseBeforeStart(t *testing.T) {
	wire := "junk-before" + "FILE_START\r\n" + "body-bytes" + "FILE_END\r\n" + "trailing-text"
	r := bytes.NewReader([]byte(wire))
	var dst bytes.Buffer
	n, err := framing.ReadFramedBody(&dst, r, true)
	require.NoError(t, err)
	assert.EqualValues(t, len("body-bytes"), n)
	assert.Equal(t, "body-bytes", dst.String())
}

func TestReadFramedBody_AlreadyPastStart(t *testing.T) {
	wire := "body-bytes" + "FILE_END\r\n"
	r := bytes.NewReader([]byte(wire))
	var dst bytes.Buffer
	n, err := framing.ReadFramedBody(&dst, r, false)
	require.NoError(t, err)
	assert.EqualValues(t, len("body-bytes"), n)
}

func TestReadFramedBody_TruncatedStreamReturnsUnexpectedEOF(t *testing.T) {
	wire := "FILE_START\r\n" + "half-a-body"
	r := bytes.NewReader([]byte(wire))
	var dst bytes.Buffer
	_, err := framing.ReadFramedBody(&dst, r, true)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, "half-a-body", dst.String())
}

func TestRoundTrip_WriteThenRead(t *testing.T) {
	payload := bytes.Repeat([]byte("roundtrip-content-"), 500)
	var wire bytes.Buffer
	_, err := framing.WriteFramedBody(&wire, bytes.NewReader(payload))
	require.NoError(t, err)

	var dst bytes.Buffer
	_, err = framing.ReadFramedBody(&dst, bytes.NewReader(wire.Bytes()[len(framing.FileStart):]), false)
	require.NoError(t, err)
	assert.Equal(t, payload, dst.Bytes())
}
