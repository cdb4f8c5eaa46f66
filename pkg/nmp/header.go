// Package nmp implements the wire format of the Simple Management Protocol
// (SMP): the 8-byte header used on both the serial and UDP transports, the
// sequence-number allocator, the CRC16/XMODEM checksum, and the CBOR
// request/response schema for every command group mcumgr exposes.
package nmp

import (
	"encoding/binary"
	"fmt"
)

// Op is the SMP operation code carried in header byte 0.
type Op uint8

const (
	OpRead Op = iota
	OpReadRsp
	OpWrite
	OpWriteRsp
)

func (op Op) String() string {
	switch op {
	case OpRead:
		return "read"
	case OpReadRsp:
		return "read-rsp"
	case OpWrite:
		return "write"
	case OpWriteRsp:
		return "write-rsp"
	default:
		return fmt.Sprintf("op(%d)", uint8(op))
	}
}

func (op Op) valid() bool {
	return op <= OpWriteRsp
}

// ResponseOp returns the op a well-formed response to op must carry.
func (op Op) ResponseOp() (Op, error) {
	switch op {
	case OpRead:
		return OpReadRsp, nil
	case OpWrite:
		return OpWriteRsp, nil
	default:
		return 0, fmt.Errorf("nmp: %v is not a request op", op)
	}
}

// Group is the SMP command group identifier.
type Group uint16

const (
	GroupDefault Group = 0
	GroupImage   Group = 1
	GroupStat    Group = 2
	GroupConfig  Group = 3
	GroupLog     Group = 4
	GroupCrash   Group = 5
	GroupSplit   Group = 6
	GroupRun     Group = 7
	GroupFs      Group = 8
	GroupShell   Group = 9
	GroupPerUser Group = 64
)

func (g Group) valid() bool {
	switch g {
	case GroupDefault, GroupImage, GroupStat, GroupConfig, GroupLog,
		GroupCrash, GroupSplit, GroupRun, GroupFs, GroupShell, GroupPerUser:
		return true
	default:
		return false
	}
}

// Command identifiers, one flat 8-bit space per group.
const (
	IDDefEcho           = 0
	IDDefConsEchoCtrl   = 1
	IDDefTaskStat       = 2
	IDDefMpStat         = 3
	IDDefDateTimeStr    = 4
	IDDefReset          = 5
	IDDefMcumgrParams   = 6
	IDDefInfo           = 7
	IDDefBootloaderInfo = 8
)

const (
	IDImageState    = 0
	IDImageUpload   = 1
	IDImageCoreList = 3
	IDImageCoreLoad = 4
	IDImageErase    = 5
)

const (
	IDStatRead = 0
	IDStatList = 1
)

const IDConfigVal = 0

const IDFsFile = 0
const IDFsFileStat = 1
const IDFsFileHash = 2

const IDShellExec = 0

// Header is the 8-byte SMP envelope shared by every request and response,
// serial and UDP alike (spec.md §3).
type Header struct {
	Op    Op
	Flags uint8
	Len   uint16
	Group Group
	Seq   uint8
	ID    uint8
}

// NewRequest builds a zero-seq, zero-len request header; callers fill in
// Seq and Len before encoding.
func NewRequest(op Op, group Group, id uint8) Header {
	return Header{Op: op, Group: group, ID: id}
}

// EncodeSerial writes the 8-byte serial-form header: op, flags, len(BE),
// group(BE), seq, id.
func (h Header) EncodeSerial() []byte {
	buf := make([]byte, 8)
	buf[0] = uint8(h.Op)
	buf[1] = h.Flags
	binary.BigEndian.PutUint16(buf[2:4], h.Len)
	binary.BigEndian.PutUint16(buf[4:6], uint16(h.Group))
	buf[6] = h.Seq
	buf[7] = h.ID
	return buf
}

// DecodeSerialHeader parses the 8-byte serial-form header, rejecting
// unknown op and group enumerants.
func DecodeSerialHeader(buf []byte) (Header, error) {
	if len(buf) < 8 {
		return Header{}, fmt.Errorf("nmp: short header (%d bytes)", len(buf))
	}
	h := Header{
		Op:    Op(buf[0]),
		Flags: buf[1],
		Len:   binary.BigEndian.Uint16(buf[2:4]),
		Group: Group(binary.BigEndian.Uint16(buf[4:6])),
		Seq:   buf[6],
		ID:    buf[7],
	}
	if !h.Op.valid() {
		return Header{}, fmt.Errorf("nmp: unknown op %d", buf[0])
	}
	if !h.Group.valid() {
		return Header{}, fmt.Errorf("nmp: unknown group %d", h.Group)
	}
	return h, nil
}

// EncodeUDP writes the 8-byte SMP v2 header. Byte 0 packs a 2-bit version
// (fixed at 1) into bits 3-4 and op into bits 0-2; flags is always zero.
func (h Header) EncodeUDP() [8]byte {
	const version = 1
	var buf [8]byte
	buf[0] = ((version & 0x03) << 3) | (uint8(h.Op) & 0x07)
	buf[1] = 0
	binary.BigEndian.PutUint16(buf[2:4], h.Len)
	binary.BigEndian.PutUint16(buf[4:6], uint16(h.Group))
	buf[6] = h.Seq
	buf[7] = h.ID
	return buf
}

// DecodeUDPHeader parses an SMP v2 header. The version field is masked off
// and ignored, per spec.md §4.1.
func DecodeUDPHeader(buf []byte) (Header, error) {
	if len(buf) < 8 {
		return Header{}, fmt.Errorf("nmp: short header (%d bytes)", len(buf))
	}
	op := Op(buf[0] & 0x07)
	if !op.valid() {
		return Header{}, fmt.Errorf("nmp: unknown op %d", buf[0]&0x07)
	}
	group := Group(binary.BigEndian.Uint16(buf[4:6]))
	if !group.valid() {
		return Header{}, fmt.Errorf("nmp: unknown group %d", group)
	}
	return Header{
		Op:    op,
		Flags: 0,
		Len:   binary.BigEndian.Uint16(buf[2:4]),
		Group: group,
		Seq:   buf[6],
		ID:    buf[7],
	}, nil
}
