package transport

import (
	"bytes"

	"github.com/rudislabs/mcumgr-client/pkg/nmp"
)

// echoingPort decodes whatever request was just written and queues a
// response built by respond, so round-trip tests don't need to guess the
// process-wide sequence counter.
type echoingPort struct {
	*testPort
	respond func(header nmp.Header, body []byte) (nmp.Header, []byte)
}

func (p *echoingPort) Write(b []byte) (int, error) {
	n, err := p.testPort.Write(b)
	if err != nil {
		return n, err
	}
	// SerialTransport.Transceive issues exactly one Write per request with
	// the complete framed bytes, so b alone (not the cumulative Written()
	// log) is the request to decode; using Written() would keep replaying
	// request #1 forever since nothing else ever trims it.
	reqHeader, reqBody, decodeErr := DecodeFrame(bytes.NewReader(b))
	if decodeErr == nil {
		rspHeader, rspBody := p.respond(reqHeader, reqBody)
		frame, encodeErr := EncodeFrame(128, rspHeader, rspBody)
		if encodeErr == nil {
			p.testPort.Feed(frame)
		}
	}
	return n, nil
}

// NewEchoTestTransport builds a SerialTransport backed by an in-memory
// loopback port that synthesizes a response for every request via
// respond. It lets pkg/mgmt and other callers unit test command adapters
// end to end without real hardware, following the same "test" device
// name convention NewSerialTransport uses.
func NewEchoTestTransport(linelength int, respond func(nmp.Header, []byte) (nmp.Header, []byte)) (*SerialTransport, error) {
	tr, err := NewSerialTransport(SerialSpecs{
		Device:              "test",
		LineLength:          linelength,
		InitialTimeoutSecs:  1,
		SubsequentTimeoutMs: 500,
	})
	if err != nil {
		return nil, err
	}
	port := tr.testPortHandle()
	tr.port = &echoingPort{testPort: port, respond: respond}
	return tr, nil
}
