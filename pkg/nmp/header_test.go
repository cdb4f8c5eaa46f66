package nmp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialHeaderRoundTrip(t *testing.T) {
	h := Header{Op: OpWrite, Flags: 0, Len: 5, Group: GroupDefault, Seq: 0x42, ID: IDDefEcho}
	encoded := h.EncodeSerial()
	require.Len(t, encoded, 8)

	decoded, err := DecodeSerialHeader(encoded)
	require.NoError(t, err)
	assert.Equal(t, h, decoded)
}

func TestSerialHeaderRejectsUnknownOp(t *testing.T) {
	buf := []byte{0xff, 0, 0, 0, 0, 0, 0, 0}
	_, err := DecodeSerialHeader(buf)
	assert.Error(t, err)
}

func TestSerialHeaderRejectsUnknownGroup(t *testing.T) {
	h := Header{Op: OpRead, Group: 0xBEEF, ID: 1}
	buf := h.EncodeSerial()
	_, err := DecodeSerialHeader(buf)
	assert.Error(t, err)
}

func TestUDPHeaderRoundTrip(t *testing.T) {
	h := Header{Op: OpReadRsp, Len: 10, Group: GroupFs, Seq: 7, ID: IDFsFile}
	encoded := h.EncodeUDP()

	decoded, err := DecodeUDPHeader(encoded[:])
	require.NoError(t, err)
	assert.Equal(t, h, decoded)
}

func TestUDPHeaderEncodesVersion1(t *testing.T) {
	h := Header{Op: OpWrite, Group: GroupDefault, Seq: 1, ID: IDDefEcho}
	encoded := h.EncodeUDP()
	version := (encoded[0] >> 3) & 0x03
	assert.Equal(t, uint8(1), version)
	assert.Equal(t, uint8(OpWrite), encoded[0]&0x07)
}

func TestUDPHeaderRejectsShortBuffer(t *testing.T) {
	_, err := DecodeUDPHeader([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestResponseOp(t *testing.T) {
	rsp, err := OpRead.ResponseOp()
	require.NoError(t, err)
	assert.Equal(t, OpReadRsp, rsp)

	rsp, err = OpWrite.ResponseOp()
	require.NoError(t, err)
	assert.Equal(t, OpWriteRsp, rsp)

	_, err = OpReadRsp.ResponseOp()
	assert.Error(t, err)
}
