package transport

import (
	"fmt"
	"io"
	"strings"
	"time"

	serial "go.bug.st/serial"

	"github.com/rudislabs/mcumgr-client/pkg/nmp"
)

// serialPort is the subset of go.bug.st/serial.Port that SerialTransport
// needs; testPort satisfies it too, which is how the "test" device name
// runs without a real port attached.
type serialPort interface {
	io.ReadWriteCloser
	SetReadTimeout(d time.Duration) error
	ResetInputBuffer() error
}

// SerialTransport drives mcumgr's serial framing over a byte-oriented
// port. It matches the device name "test" to an in-memory loopback port
// so callers can exercise the full encode/decode path without hardware.
type SerialTransport struct {
	port              serialPort
	linelength        int
	initialTimeout    time.Duration
	subsequentTimeout time.Duration
	mtu               int
}

// defaultSerialMTU is spec.md §6's configuration default for the serial
// transport's body-size ceiling.
const defaultSerialMTU = 512

// SerialSpecs configures a SerialTransport (spec.md §6.8). MTU defaults
// to defaultSerialMTU when zero.
type SerialSpecs struct {
	Device              string
	BaudRate            int
	LineLength          int
	InitialTimeoutSecs  float64
	SubsequentTimeoutMs uint32
	MTU                 int
}

// NewSerialTransport opens the named device, or an in-memory loopback
// port when Device is "test" (case-insensitive).
func NewSerialTransport(specs SerialSpecs) (*SerialTransport, error) {
	if specs.LineLength < 6 {
		return nil, &ConfigError{Reason: fmt.Sprintf("line_length must be >= 6, got %d", specs.LineLength)}
	}

	var port serialPort
	if strings.EqualFold(specs.Device, "test") {
		port = newTestPort()
	} else {
		mode := &serial.Mode{BaudRate: specs.BaudRate}
		p, err := serial.Open(specs.Device, mode)
		if err != nil {
			return nil, ioErrorf(err)
		}
		port = p
	}

	mtu := specs.MTU
	if mtu <= 0 {
		mtu = defaultSerialMTU
	}

	t := &SerialTransport{
		port:              port,
		linelength:        specs.LineLength,
		initialTimeout:    time.Duration(specs.InitialTimeoutSecs * float64(time.Second)),
		subsequentTimeout: time.Duration(specs.SubsequentTimeoutMs) * time.Millisecond,
		mtu:               mtu,
	}
	return t, nil
}

// SetTimeout overrides the timeout awaited for the first byte of the
// *next* Transceive call. Command adapters that perform a multi-request
// transfer call this with a short duration after the first round trip
// succeeds, since a live link no longer needs the long initial wait
// spec.md §4.4 budgets for a cold device (original_source/src/fs.rs
// reduces the port timeout the same way after its first chunk).
func (t *SerialTransport) SetTimeout(ms uint32) error {
	t.initialTimeout = time.Duration(ms) * time.Millisecond
	return nil
}

// MTU reports the configured maximum CBOR body size a single serial
// frame carries (spec.md §6's serial MTU, default 512). mcumgr servers
// negotiate their real buffer size separately via McumgrParams; this is
// the client-side chunk-sizing ceiling command adapters honor.
func (t *SerialTransport) MTU() int { return t.mtu }

func (t *SerialTransport) LineLength() int { return t.linelength }

// firstByteTimeoutReader wraps the port so the first Read waits up to
// initial, and the port's timeout then switches to subsequent for every
// byte after (spec.md §4.4).
type firstByteTimeoutReader struct {
	port       serialPort
	initial    time.Duration
	subsequent time.Duration
	switched   bool
}

func (r *firstByteTimeoutReader) Read(b []byte) (int, error) {
	if !r.switched {
		if err := r.port.SetReadTimeout(r.initial); err != nil {
			return 0, ioErrorf(err)
		}
	}
	n, err := r.port.Read(b)
	if err == nil && n == 0 {
		// go.bug.st/serial reports an expired read timeout as (0, nil).
		return 0, &Timeout{}
	}
	if err == nil && !r.switched {
		r.switched = true
		if serr := r.port.SetReadTimeout(r.subsequent); serr != nil {
			return n, ioErrorf(serr)
		}
	}
	return n, err
}

// Transceive writes one framed request and blocks for its matching
// response. It makes a single attempt; a read timeout is returned as
// Timeout and retrying is left to the caller.
func (t *SerialTransport) Transceive(op nmp.Op, group nmp.Group, id uint8, body []byte) (nmp.Header, []byte, error) {
	header := nmp.NewRequest(op, group, id)
	header.Seq = nmp.NextSeqID()

	frame, err := EncodeFrame(t.linelength, header, body)
	if err != nil {
		return nmp.Header{}, nil, err
	}

	if err := t.port.ResetInputBuffer(); err != nil {
		return nmp.Header{}, nil, ioErrorf(err)
	}
	if _, err := t.port.Write(frame); err != nil {
		return nmp.Header{}, nil, ioErrorf(err)
	}

	reader := &firstByteTimeoutReader{port: t.port, initial: t.initialTimeout, subsequent: t.subsequentTimeout}
	rspHeader, rspBody, err := DecodeFrame(reader)
	if err != nil {
		return nmp.Header{}, nil, err
	}
	if err := validateResponse(op, group, header.Seq, rspHeader); err != nil {
		return nmp.Header{}, nil, err
	}
	return rspHeader, rspBody, nil
}

// testPortHandle exposes the underlying test port so unit tests can feed
// canned responses and inspect what was written.
func (t *SerialTransport) testPortHandle() *testPort {
	p, _ := t.port.(*testPort)
	return p
}
