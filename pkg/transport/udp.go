package transport

import (
	"net"
	"strconv"
	"time"

	"github.com/rudislabs/mcumgr-client/pkg/nmp"
)

const udpRecvBufSize = 4096

// defaultUDPMTU is spec.md §6's configuration default for the UDP
// transport's body-size ceiling.
const defaultUDPMTU = 1024

// UDPSpecs configures a UDPTransport (spec.md §6.8). MTU defaults to
// defaultUDPMTU when zero.
type UDPSpecs struct {
	Host      string
	Port      int
	TimeoutMs uint32
	MTU       int
}

// UDPTransport carries SMP v2 framing over a connected UDP socket: no
// base64, no CRC, no chunking — one datagram per request/response
// (spec.md §4.5).
type UDPTransport struct {
	conn    *net.UDPConn
	timeout time.Duration
	mtu     int
}

// NewUDPTransport resolves host:port and binds an ephemeral local socket
// connected to it.
func NewUDPTransport(specs UDPSpecs) (*UDPTransport, error) {
	addr, err := net.ResolveUDPAddr("udp", fmtHostPort(specs.Host, specs.Port))
	if err != nil {
		return nil, ioErrorf(err)
	}
	conn, err := net.DialUDP("udp", nil, addr)
	if err != nil {
		return nil, ioErrorf(err)
	}
	mtu := specs.MTU
	if mtu <= 0 {
		mtu = defaultUDPMTU
	}
	return &UDPTransport{conn: conn, timeout: time.Duration(specs.TimeoutMs) * time.Millisecond, mtu: mtu}, nil
}

func fmtHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func (t *UDPTransport) SetTimeout(ms uint32) error {
	t.timeout = time.Duration(ms) * time.Millisecond
	return nil
}

// MTU returns the configured maximum CBOR body size a single UDP
// datagram can carry (spec.md §6's UDP MTU, default 1024), independent
// of the 4096-byte OS-level receive buffer that merely bounds what a
// reply may arrive in.
func (t *UDPTransport) MTU() int { return t.mtu }

// LineLength has no meaning for a datagram transport; UDP returns its MTU
// so callers that branch on framing strategy can treat it uniformly.
func (t *UDPTransport) LineLength() int { return t.MTU() }

// Transceive sends one SMP v2 datagram and waits for its reply. The
// 8-byte header and CBOR body are sent back to back with no length
// delimiter: the whole datagram boundary from the OS is the frame.
func (t *UDPTransport) Transceive(op nmp.Op, group nmp.Group, id uint8, body []byte) (nmp.Header, []byte, error) {
	header := nmp.NewRequest(op, group, id)
	header.Seq = nmp.NextSeqID()
	header.Len = uint16(len(body))

	hdrBytes := header.EncodeUDP()
	packet := make([]byte, 0, len(hdrBytes)+len(body))
	packet = append(packet, hdrBytes[:]...)
	packet = append(packet, body...)

	if err := t.conn.SetDeadline(time.Now().Add(t.timeout)); err != nil {
		return nmp.Header{}, nil, ioErrorf(err)
	}
	if _, err := t.conn.Write(packet); err != nil {
		return nmp.Header{}, nil, ioErrorf(err)
	}

	buf := make([]byte, udpRecvBufSize)
	n, err := t.conn.Read(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nmp.Header{}, nil, &Timeout{Cause: err}
		}
		return nmp.Header{}, nil, ioErrorf(err)
	}
	if n < 8 {
		return nmp.Header{}, nil, framingErrorf("datagram shorter than an SMP header: %d bytes", n)
	}

	rspHeader, err := nmp.DecodeUDPHeader(buf[:8])
	if err != nil {
		return nmp.Header{}, nil, decodeErrorf(err, "header")
	}
	// An empty tail is a valid SMP response (e.g. Reset, Commit): materialize
	// it as the empty CBOR map rather than leaving rspBody nil, so the
	// caller's cbor.Unmarshal doesn't choke on zero-length input (spec.md
	// §4.5/§8).
	rspBody := []byte{0xa0}
	if n > 8 {
		rspBody = append([]byte(nil), buf[8:n]...)
	}

	if err := validateResponse(op, group, header.Seq, rspHeader); err != nil {
		return nmp.Header{}, nil, err
	}
	return rspHeader, rspBody, nil
}

// Close releases the underlying socket.
func (t *UDPTransport) Close() error {
	return t.conn.Close()
}
