package dataconn

import (
	"io"
	"net"

	"github.com/pkg/errors"

	. "gopkg.in/check.v1"
)

func (s *TestSuite) TestWireReadWrite(c *C) {
	client, server := net.Pipe()
	defer client.Close()
	w := NewWire(server, 0)
	defer w.Close()

	rec := buildCall(42, ProgramVXI11Core, ProcDeviceRead, EncodeWords(0, 255, 0, 0, 0, 0))
	go func() {
		client.Write(rec)
	}()

	got, err := w.Read()
	c.Assert(err, IsNil)
	c.Assert(got, DeepEquals, rec)

	reply := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 4+24+8)
		if _, err := io.ReadFull(client, buf); err != nil {
			reply <- nil
			return
		}
		reply <- buf
	}()
	c.Assert(w.WriteReply(42, EncodeWords(0, 4)), IsNil)
	c.Assert(<-reply, DeepEquals, EncodeReply(42, EncodeWords(0, 4)))
}

func (s *TestSuite) TestWireRejectsFragment(c *C) {
	client, server := net.Pipe()
	defer client.Close()
	w := NewWire(server, 0)
	defer w.Close()

	go func() {
		client.Write(Int2Bytes(8))
	}()
	_, err := w.Read()
	c.Assert(errors.Is(err, ErrMalformedFrame), Equals, true)
}

func (s *TestSuite) TestWireRejectsOversizedRecord(c *C) {
	client, server := net.Pipe()
	defer client.Close()
	w := NewWire(server, 64)
	defer w.Close()

	go func() {
		client.Write(Int2Bytes(65 | LastFragment))
	}()
	_, err := w.Read()
	c.Assert(errors.Is(err, ErrMalformedFrame), Equals, true)
}

func (s *TestSuite) TestWireEOF(c *C) {
	client, server := net.Pipe()
	w := NewWire(server, 0)
	defer w.Close()

	client.Close()
	_, err := w.Read()
	c.Assert(err, Equals, io.EOF)
}
