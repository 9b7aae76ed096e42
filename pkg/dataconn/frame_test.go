package dataconn

import (
	"bytes"
	"math/rand"
	"testing"
	"testing/quick"

	"github.com/pkg/errors"

	. "gopkg.in/check.v1"
)

func Test(t *testing.T) { TestingT(t) }

type TestSuite struct{}

var _ = Suite(&TestSuite{})

// buildCall returns a core-service call record with AUTH_NULL credentials
// followed by args.
func buildCall(xid, program, procedure uint32, args []byte) []byte {
	body := EncodeWords(xid, MsgTypeCall, 2, program, 1, procedure, AuthFlavorNull, 0, AuthFlavorNull, 0)
	body = append(body, args...)
	return append(Int2Bytes(uint32(len(body))|LastFragment), body...)
}

func (s *TestSuite) TestInt2BytesRoundTrip(c *C) {
	for _, v := range []uint32{0, 1, 0xff, 0x100, 0x607af, 0x7fffffff, 0x80000000, 0xffffffff} {
		b := Int2Bytes(v)
		c.Assert(b, HasLen, 4)
		got, err := Bytes2Int(b)
		c.Assert(err, IsNil)
		c.Assert(got, Equals, v)
	}

	roundTrip := func(v uint32) bool {
		got, err := Bytes2Int(Int2Bytes(v))
		return err == nil && got == v
	}
	cfg := &quick.Config{MaxCount: 10000, Rand: rand.New(rand.NewSource(1))}
	c.Assert(quick.Check(roundTrip, cfg), IsNil)
}

func (s *TestSuite) TestInt2BytesBigEndian(c *C) {
	c.Assert(Int2Bytes(703), DeepEquals, []byte{0x00, 0x00, 0x02, 0xbf})
	c.Assert(Int2Bytes(ProgramVXI11Core), DeepEquals, []byte{0x00, 0x06, 0x07, 0xaf})
}

func (s *TestSuite) TestBytes2IntWrongLength(c *C) {
	_, err := Bytes2Int([]byte{1, 2, 3})
	c.Assert(errors.Is(err, ErrMalformedFrame), Equals, true)
}

func (s *TestSuite) TestUint32AtBounds(c *C) {
	buf := []byte{0, 0, 0, 1, 0, 0, 0, 2}
	v, err := Uint32At(buf, 4)
	c.Assert(err, IsNil)
	c.Assert(v, Equals, uint32(2))

	_, err = Uint32At(buf, 5)
	c.Assert(errors.Is(err, ErrMalformedFrame), Equals, true)
	_, err = Uint32At(buf, -1)
	c.Assert(errors.Is(err, ErrMalformedFrame), Equals, true)
	_, err = Uint32At(nil, 0)
	c.Assert(errors.Is(err, ErrMalformedFrame), Equals, true)
}

func (s *TestSuite) TestDecodeCallHeader(c *C) {
	rec := buildCall(0xdeadbeef, ProgramVXI11Core, ProcCreateLink, nil)
	hdr, err := DecodeCallHeader(rec)
	c.Assert(err, IsNil)
	c.Assert(hdr.XID, Equals, uint32(0xdeadbeef))
	c.Assert(hdr.MsgType, Equals, MsgTypeCall)
	c.Assert(hdr.RPCVersion, Equals, uint32(2))
	c.Assert(hdr.Program, Equals, ProgramVXI11Core)
	c.Assert(hdr.ProgramVersion, Equals, uint32(1))
	c.Assert(hdr.Procedure, Equals, ProcCreateLink)

	_, err = DecodeCallHeader(rec[:OffsetProcedure+3])
	c.Assert(errors.Is(err, ErrMalformedFrame), Equals, true)
}

func (s *TestSuite) TestWritePayload(c *C) {
	data := []byte("C1:BSWV FRQ,1000")
	args := EncodeWords(0, 0, 0, 0, uint32(len(data)))
	args = append(args, data...)
	rec := buildCall(1, ProgramVXI11Core, ProcDeviceWrite, args)

	c.Assert(bytes.Index(rec, data), Equals, OffsetWriteData)
	payload, err := WritePayload(rec)
	c.Assert(err, IsNil)
	c.Assert(string(payload), Equals, string(data))

	_, err = WritePayload(rec[:len(rec)-1])
	c.Assert(errors.Is(err, ErrMalformedFrame), Equals, true)

	_, err = WritePayload(rec[:OffsetWriteLength+2])
	c.Assert(errors.Is(err, ErrMalformedFrame), Equals, true)
}

func (s *TestSuite) TestWritePayloadHugeLength(c *C) {
	args := EncodeWords(0, 0, 0, 0, 0xffffffff)
	rec := buildCall(1, ProgramVXI11Core, ProcDeviceWrite, args)
	_, err := WritePayload(rec)
	c.Assert(errors.Is(err, ErrMalformedFrame), Equals, true)
}

func (s *TestSuite) TestEncodeReply(c *C) {
	payload := EncodeWords(703)
	rec := EncodeReply(0x01020304, payload)

	c.Assert(rec, HasLen, 4+24+4)
	mark, err := Uint32At(rec, OffsetRecordMark)
	c.Assert(err, IsNil)
	c.Assert(mark&LastFragment, Equals, LastFragment)
	c.Assert(int(mark&^LastFragment), Equals, len(rec)-4)

	expected := []byte{
		0x80, 0x00, 0x00, 0x1c,
		0x01, 0x02, 0x03, 0x04,
		0x00, 0x00, 0x00, 0x01,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x02, 0xbf,
	}
	c.Assert(rec, DeepEquals, expected)
}

func (s *TestSuite) TestEncodeReplyLengthMatchesPayload(c *C) {
	for _, n := range []int{0, 1, 16, 255, 4096} {
		rec := EncodeReply(7, make([]byte, n))
		mark, err := Uint32At(rec, 0)
		c.Assert(err, IsNil)
		c.Assert(mark, Equals, uint32(24+n)|LastFragment)
	}
}
