package dataconn

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Int2Bytes returns the 4-byte big-endian representation of num.
func Int2Bytes(num uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, num)
	return b
}

// Bytes2Int is the inverse of Int2Bytes.
func Bytes2Int(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, errors.Wrapf(ErrMalformedFrame, "expected 4 bytes, got %d", len(b))
	}
	return binary.BigEndian.Uint32(b), nil
}

// Uint32At decodes the big-endian field at offset, failing with
// ErrMalformedFrame when the buffer is too short.
func Uint32At(buf []byte, offset int) (uint32, error) {
	if offset < 0 || len(buf) < offset+4 {
		return 0, errors.Wrapf(ErrMalformedFrame, "field at 0x%02x is beyond the %d byte record", offset, len(buf))
	}
	return binary.BigEndian.Uint32(buf[offset:]), nil
}

func DecodeCallHeader(buf []byte) (*CallHeader, error) {
	if len(buf) < callHeaderSize {
		return nil, errors.Wrapf(ErrMalformedFrame, "record of %d bytes is shorter than an RPC call header", len(buf))
	}
	return &CallHeader{
		XID:            binary.BigEndian.Uint32(buf[OffsetXID:]),
		MsgType:        binary.BigEndian.Uint32(buf[OffsetMsgType:]),
		RPCVersion:     binary.BigEndian.Uint32(buf[OffsetRPCVersion:]),
		Program:        binary.BigEndian.Uint32(buf[OffsetProgram:]),
		ProgramVersion: binary.BigEndian.Uint32(buf[OffsetProgramVersion:]),
		Procedure:      binary.BigEndian.Uint32(buf[OffsetProcedure:]),
	}, nil
}

// WritePayload returns the data bytes of a device_write call.
func WritePayload(buf []byte) ([]byte, error) {
	length, err := Uint32At(buf, OffsetWriteLength)
	if err != nil {
		return nil, err
	}
	end := uint64(OffsetWriteData) + uint64(length)
	if end > uint64(len(buf)) {
		return nil, errors.Wrapf(ErrMalformedFrame, "device_write announces %d data bytes but the record holds %d", length, len(buf)-OffsetWriteData)
	}
	return buf[OffsetWriteData:end], nil
}

// EncodeReply builds a complete accepted reply record: record mark, reply
// header with AUTH_NULL verifier and SUCCESS, then payload.
func EncodeReply(xid uint32, payload []byte) []byte {
	size := replyHeaderSize + len(payload)
	out := make([]byte, 0, 4+size)
	out = append(out, Int2Bytes(uint32(size)|LastFragment)...)
	out = append(out, Int2Bytes(xid)...)
	out = append(out, Int2Bytes(MsgTypeReply)...)
	out = append(out, Int2Bytes(ReplyStatAccepted)...)
	out = append(out, Int2Bytes(AuthFlavorNull)...)
	out = append(out, Int2Bytes(0)...) // verifier length
	out = append(out, Int2Bytes(AcceptSuccess)...)
	return append(out, payload...)
}

// EncodeWords concatenates the 4-byte encodings of words.
func EncodeWords(words ...uint32) []byte {
	out := make([]byte, 0, 4*len(words))
	for _, w := range words {
		out = append(out, Int2Bytes(w)...)
	}
	return out
}
