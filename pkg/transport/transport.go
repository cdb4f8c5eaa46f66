// Package transport implements the transport-polymorphic dispatcher (C6)
// over the serial framer (C3/C4) and the UDP datagram transport (C5).
// Both concrete transports satisfy Transport so pkg/mgmt's service
// adapters are written once against the interface, never once per
// transport.
package transport

import "github.com/rudislabs/mcumgr-client/pkg/nmp"

// Transport is the capability every service adapter in pkg/mgmt is built
// against (spec.md §4.6).
type Transport interface {
	// Transceive sends one SMP request and returns its validated
	// response header and CBOR body.
	Transceive(op nmp.Op, group nmp.Group, id uint8, body []byte) (nmp.Header, []byte, error)
	// SetTimeout mutates the read timeout used by subsequent calls.
	SetTimeout(ms uint32) error
	// MTU is the maximum body size this transport can carry.
	MTU() int
	// LineLength is the maximum bytes per framed line (serial only; UDP
	// transports return their MTU).
	LineLength() int
}

// ErrWrongResponseType is returned when a response's seq, op, or group
// does not correlate to the request that produced it (spec.md §7).
type ErrWrongResponseType struct {
	Reason string
}

func (e *ErrWrongResponseType) Error() string {
	return "wrong response type: " + e.Reason
}

func validateResponse(reqOp nmp.Op, reqGroup nmp.Group, reqSeq uint8, rsp nmp.Header) error {
	if rsp.Seq != reqSeq {
		return &ErrWrongResponseType{Reason: "wrong sequence number"}
	}
	expectedOp, err := reqOp.ResponseOp()
	if err != nil {
		return &ErrWrongResponseType{Reason: err.Error()}
	}
	if rsp.Op != expectedOp || rsp.Group != reqGroup {
		return &ErrWrongResponseType{Reason: "wrong response op/group"}
	}
	return nil
}
