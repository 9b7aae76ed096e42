package dataconn

import (
	"github.com/pkg/errors"
)

const (
	MsgTypeCall  = uint32(0)
	MsgTypeReply = uint32(1)

	ReplyStatAccepted = uint32(0)
	AuthFlavorNull    = uint32(0)
	AcceptSuccess     = uint32(0)

	// LastFragment is set in the record mark of the only fragment of a record.
	LastFragment   = uint32(0x80000000)
	fragmentLength = uint32(0x7fffffff)

	ProgramPortmap   = uint32(100000)
	ProgramVXI11Core = uint32(0x000607AF)

	ProcGetPort = uint32(3)

	ProcCreateLink  = uint32(10)
	ProcDeviceWrite = uint32(11)
	ProcDeviceRead  = uint32(12)
	ProcDestroyLink = uint32(23)
)

// Byte offsets inside a received record. The record mark is at offset 0.
const (
	OffsetRecordMark     = 0x00
	OffsetXID            = 0x04
	OffsetMsgType        = 0x08
	OffsetRPCVersion     = 0x0C
	OffsetProgram        = 0x10
	OffsetProgramVersion = 0x14
	OffsetProcedure      = 0x18

	// GETPORT arguments follow an AUTH_NULL credential and verifier.
	OffsetGetPortProgram = 0x2C

	// device_write arguments: lid, io_timeout, lock_timeout, flags, data.
	OffsetWriteLength = 0x3C
	OffsetWriteData   = 0x40

	callHeaderSize  = OffsetProcedure + 4
	replyHeaderSize = 24
)

const (
	DefaultMaxRecordSize = 0x800000

	readBufferSize  = 4096
	writeBufferSize = 4096
)

var (
	ErrMalformedFrame = errors.New("malformed frame")
)

// CallHeader is the fixed part of an ONC-RPC call as it appears on the wire.
type CallHeader struct {
	XID            uint32
	MsgType        uint32
	RPCVersion     uint32
	Program        uint32
	ProgramVersion uint32
	Procedure      uint32
}
