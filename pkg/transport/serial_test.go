package transport

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rudislabs/mcumgr-client/pkg/nmp"
)

func newTestSerialTransport(t *testing.T) (*SerialTransport, *testPort) {
	t.Helper()
	tr, err := NewSerialTransport(SerialSpecs{
		Device:              "test",
		BaudRate:            115200,
		LineLength:          128,
		InitialTimeoutSecs:  1,
		SubsequentTimeoutMs: 500,
	})
	require.NoError(t, err)
	return tr, tr.testPortHandle()
}

func TestSerialTransportTransceiveRoundTrip(t *testing.T) {
	respBody := []byte{0xa1, 0x61, 0x72, 0x65, 0x68, 0x69}

	tr, err := NewEchoTestTransport(128, func(header nmp.Header, _ []byte) (nmp.Header, []byte) {
		rspOp, _ := header.Op.ResponseOp()
		rsp := nmp.NewRequest(rspOp, header.Group, header.ID)
		rsp.Seq = header.Seq
		return rsp, respBody
	})
	require.NoError(t, err)

	_, gotBody, err := tr.Transceive(nmp.OpWrite, nmp.GroupDefault, nmp.IDDefEcho, []byte{0xa1, 0x61, 0x64, 0x61})
	require.NoError(t, err)
	require.Equal(t, respBody, gotBody)
}

func TestSerialTransportRejectsMismatchedSequence(t *testing.T) {
	tr, port := newTestSerialTransport(t)

	// Transceive drains pending input before writing, so the reply has to
	// be queued in response to the request rather than fed beforehand.
	tr.port = &echoingPort{testPort: port, respond: func(header nmp.Header, _ []byte) (nmp.Header, []byte) {
		rsp := nmp.NewRequest(nmp.OpWriteRsp, header.Group, header.ID)
		rsp.Seq = header.Seq + 1 // deliberately wrong
		return rsp, nil
	}}

	_, _, err := tr.Transceive(nmp.OpWrite, nmp.GroupDefault, nmp.IDDefEcho, nil)
	require.Error(t, err)
	var wrt *ErrWrongResponseType
	require.ErrorAs(t, err, &wrt)
}

func TestSerialTransportTimesOutWithNoReply(t *testing.T) {
	tr, err := NewSerialTransport(SerialSpecs{
		Device:              "test",
		LineLength:          128,
		InitialTimeoutSecs:  0.01,
		SubsequentTimeoutMs: 10,
	})
	require.NoError(t, err)

	_, _, err = tr.Transceive(nmp.OpRead, nmp.GroupDefault, nmp.IDDefEcho, nil)
	require.Error(t, err)
}

func TestNewSerialTransportRejectsConfigBelowMinimumLineLength(t *testing.T) {
	_, err := NewSerialTransport(SerialSpecs{Device: "test", LineLength: 4})
	require.Error(t, err)
	var ce *ConfigError
	require.ErrorAs(t, err, &ce)
}
