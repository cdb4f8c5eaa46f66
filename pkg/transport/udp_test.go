package transport

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rudislabs/mcumgr-client/pkg/nmp"
)

// fakeDevice is a minimal UDP echo server used to exercise UDPTransport
// without a real mcumgr device.
func fakeDevice(t *testing.T, respond func(nmp.Header, []byte) (nmp.Header, []byte)) *net.UDPConn {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 4096)
		for {
			n, addr, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			if n < 8 {
				continue
			}
			reqHeader, decodeErr := nmp.DecodeUDPHeader(buf[:8])
			if decodeErr != nil {
				continue
			}
			rspHeader, rspBody := respond(reqHeader, append([]byte(nil), buf[8:n]...))
			hdrBytes := rspHeader.EncodeUDP()
			packet := append(append([]byte(nil), hdrBytes[:]...), rspBody...)
			_, _ = conn.WriteToUDP(packet, addr)
		}
	}()
	return conn
}

func TestUDPTransportTransceiveRoundTrip(t *testing.T) {
	respBody := []byte{0xa1, 0x61, 0x72, 0x65, 0x68, 0x69}
	device := fakeDevice(t, func(header nmp.Header, _ []byte) (nmp.Header, []byte) {
		rspOp, _ := header.Op.ResponseOp()
		rsp := nmp.NewRequest(rspOp, header.Group, header.ID)
		rsp.Seq = header.Seq
		return rsp, respBody
	})
	localAddr := device.LocalAddr().(*net.UDPAddr)

	tr, err := NewUDPTransport(UDPSpecs{Host: "127.0.0.1", Port: localAddr.Port, TimeoutMs: 1000})
	require.NoError(t, err)
	defer tr.Close()

	_, gotBody, err := tr.Transceive(nmp.OpWrite, nmp.GroupDefault, nmp.IDDefEcho, []byte{0xa1, 0x61, 0x64, 0x61})
	require.NoError(t, err)
	require.Equal(t, respBody, gotBody)
}

func TestUDPTransportTimesOutWithNoReply(t *testing.T) {
	// Bind a socket that never replies.
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer conn.Close()
	localAddr := conn.LocalAddr().(*net.UDPAddr)

	tr, err := NewUDPTransport(UDPSpecs{Host: "127.0.0.1", Port: localAddr.Port, TimeoutMs: 50})
	require.NoError(t, err)
	defer tr.Close()

	_, _, err = tr.Transceive(nmp.OpRead, nmp.GroupDefault, nmp.IDDefEcho, nil)
	require.Error(t, err)

	var timeout *Timeout
	require.ErrorAs(t, err, &timeout)
}
