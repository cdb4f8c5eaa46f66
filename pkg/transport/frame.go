package transport

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/rudislabs/mcumgr-client/pkg/nmp"
)

const (
	sofByte1  = 0x06
	sofByte2  = 0x09
	contByte1 = 0x04
	contByte2 = 0x14
	newline   = 0x0A
)

// EncodeFrame builds the wire bytes for one serial request: header||body,
// CRC16/XMODEM trailer, a big-endian length prefix, base64, and chunking
// into SOF/CONT-marked lines of at most linelength-4 bytes (spec.md §4.3).
func EncodeFrame(linelength int, header nmp.Header, body []byte) ([]byte, error) {
	if linelength < 6 {
		return nil, fmt.Errorf("transport: linelength must be >= 6, got %d", linelength)
	}
	header.Len = uint16(len(body))

	buf := append(header.EncodeSerial(), body...)
	crc := nmp.CRC16XModem(buf)

	framed := make([]byte, 0, len(buf)+2)
	framed = append(framed, buf...)
	framed = binary.BigEndian.AppendUint16(framed, crc)

	prefixed := make([]byte, 0, len(framed)+2)
	prefixed = binary.BigEndian.AppendUint16(prefixed, uint16(len(framed)))
	prefixed = append(prefixed, framed...)

	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(prefixed)))
	base64.StdEncoding.Encode(encoded, prefixed)

	out := make([]byte, 0, len(encoded)+len(encoded)/64*2+4)
	chunkLen := linelength - 4
	for written := 0; written < len(encoded); {
		if written == 0 {
			out = append(out, sofByte1, sofByte2)
		} else {
			out = append(out, contByte1, contByte2)
		}
		n := chunkLen
		if remaining := len(encoded) - written; remaining < n {
			n = remaining
		}
		out = append(out, encoded[written:written+n]...)
		out = append(out, newline)
		written += n
	}
	return out, nil
}

func readByte(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		switch err.(type) {
		case *Timeout, *IoError, *FramingError, *DecodeError:
			return 0, err
		}
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return 0, &Timeout{Cause: err}
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, &Timeout{Cause: err}
		}
		return 0, ioErrorf(err)
	}
	return b[0], nil
}

func expectMarker(r io.Reader, b1, b2 byte) error {
	got1, err := readByte(r)
	if err != nil {
		return err
	}
	if got1 != b1 {
		return framingErrorf("expected marker byte 0x%02x, got 0x%02x", b1, got1)
	}
	got2, err := readByte(r)
	if err != nil {
		return err
	}
	if got2 != b2 {
		return framingErrorf("expected marker byte 0x%02x, got 0x%02x", b2, got2)
	}
	return nil
}

// DecodeFrame reads one response frame from r: the SOF marker on the
// first chunk, CONT markers on subsequent chunks, reassembles the base64
// text across chunk boundaries until the declared length is satisfied,
// then validates the length prefix and CRC16/XMODEM trailer before
// parsing the header and returning the raw CBOR body (spec.md §4.3).
func DecodeFrame(r io.Reader) (nmp.Header, []byte, error) {
	var result []byte
	bytesRead := 0
	expectedLen := 0

	for {
		if bytesRead == 0 {
			if err := expectMarker(r, sofByte1, sofByte2); err != nil {
				return nmp.Header{}, nil, err
			}
		} else {
			if err := expectMarker(r, contByte1, contByte2); err != nil {
				return nmp.Header{}, nil, err
			}
		}

		for {
			b, err := readByte(r)
			if err != nil {
				return nmp.Header{}, nil, err
			}
			if b == newline {
				break
			}
			result = append(result, b)
			bytesRead++
		}

		// Short lines can split a base64 quantum across chunks, so only the
		// complete 4-character groups received so far are decoded here.
		usable := len(result) / 4 * 4
		if usable == 0 && len(result) > 0 {
			continue
		}
		decoded, err := base64.StdEncoding.DecodeString(string(result[:usable]))
		if err != nil {
			return nmp.Header{}, nil, decodeErrorf(err, "base64 decode of chunk text")
		}
		if expectedLen == 0 {
			if len(decoded) < 2 {
				return nmp.Header{}, nil, framingErrorf("chunk too short to carry a length prefix")
			}
			if l := binary.BigEndian.Uint16(decoded[:2]); l > 0 {
				expectedLen = int(l)
			}
		}
		if len(decoded)-2 >= expectedLen {
			break
		}
	}

	decoded, err := base64.StdEncoding.DecodeString(string(result))
	if err != nil {
		return nmp.Header{}, nil, decodeErrorf(err, "base64 decode of reassembled frame")
	}
	if len(decoded) < 2 {
		return nmp.Header{}, nil, framingErrorf("decoded frame shorter than length prefix")
	}

	declaredLen := int(binary.BigEndian.Uint16(decoded[:2]))
	if declaredLen != len(decoded)-2 {
		return nmp.Header{}, nil, framingErrorf("wrong chunk length: declared %d, got %d", declaredLen, len(decoded)-2)
	}

	middle := decoded[2 : len(decoded)-2]
	readChecksum := binary.BigEndian.Uint16(decoded[len(decoded)-2:])
	calculated := nmp.CRC16XModem(middle)
	if readChecksum != calculated {
		return nmp.Header{}, nil, framingErrorf("wrong checksum: got 0x%04x, want 0x%04x", readChecksum, calculated)
	}

	if len(middle) < 8 {
		return nmp.Header{}, nil, framingErrorf("frame shorter than an SMP header")
	}
	header, err := nmp.DecodeSerialHeader(middle[:8])
	if err != nil {
		return nmp.Header{}, nil, decodeErrorf(err, "header")
	}

	// An empty body is a valid SMP response (e.g. Reset, Commit): materialize
	// it as the empty CBOR map rather than a zero-length slice, so the
	// caller's cbor.Unmarshal doesn't choke on empty input (spec.md §4.5/§8,
	// mirrored on the UDP transport's Transceive).
	respBody := middle[8:]
	if len(respBody) == 0 {
		respBody = []byte{0xa0}
	}
	return header, respBody, nil
}
