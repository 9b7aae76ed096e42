package portmap

import (
	"io"
	"net"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	. "gopkg.in/check.v1"

	"github.com/bodebridge/vxi11-bridge/pkg/dataconn"
	"github.com/bodebridge/vxi11-bridge/pkg/util"
)

func Test(t *testing.T) { TestingT(t) }

type TestSuite struct{}

var _ = Suite(&TestSuite{})

func getPort(xid, procedure, program uint32) []byte {
	body := dataconn.EncodeWords(xid, dataconn.MsgTypeCall, 2, dataconn.ProgramPortmap, 2, procedure,
		dataconn.AuthFlavorNull, 0, dataconn.AuthFlavorNull, 0,
		program, 1, 6, 0)
	return append(dataconn.Int2Bytes(uint32(len(body))|dataconn.LastFragment), body...)
}

func (s *TestSuite) TestReply(c *C) {
	r := NewResponder(703)

	xid, payload, err := r.Reply(getPort(0x1234, dataconn.ProcGetPort, dataconn.ProgramVXI11Core))
	c.Assert(err, IsNil)
	c.Assert(xid, Equals, uint32(0x1234))
	c.Assert(payload, DeepEquals, []byte{0x00, 0x00, 0x02, 0xBF})
	c.Assert(dataconn.EncodeReply(xid, payload), HasLen, 32)
}

func (s *TestSuite) TestReplyRejects(c *C) {
	r := NewResponder(703)
	valid := getPort(1, dataconn.ProcGetPort, dataconn.ProgramVXI11Core)

	records := map[string][]byte{
		"other program":   getPort(1, dataconn.ProcGetPort, 100003),
		"other procedure": getPort(1, 4, dataconn.ProgramVXI11Core),
		"short record":    valid[:dataconn.OffsetGetPortProgram+2],
		"no header":       valid[:8],
	}
	for name, rec := range records {
		_, payload, err := r.Reply(rec)
		c.Assert(errors.Is(err, dataconn.ErrMalformedFrame), Equals, true, Commentf(name))
		c.Assert(payload, IsNil)
	}
}

func serve(r *Responder, request []byte) (net.Conn, chan error) {
	client, server := net.Pipe()
	done := make(chan error, 1)
	go func() {
		done <- r.Serve(server, 0)
	}()
	if request != nil {
		go client.Write(request)
	}
	return client, done
}

func (s *TestSuite) TestServe(c *C) {
	client, done := serve(NewResponder(4321), getPort(77, dataconn.ProcGetPort, dataconn.ProgramVXI11Core))
	defer client.Close()

	reply, err := io.ReadAll(client)
	c.Assert(err, IsNil)
	c.Assert(reply, DeepEquals, dataconn.EncodeReply(77, dataconn.Int2Bytes(4321)))
	c.Assert(<-done, IsNil)
}

func (s *TestSuite) TestServeDropsIncompatibleRequest(c *C) {
	hook := test.NewGlobal()
	defer hook.Reset()

	client, done := serve(NewResponder(703), getPort(77, dataconn.ProcGetPort, 100003))
	defer client.Close()

	reply, err := io.ReadAll(client)
	c.Assert(err, IsNil)
	c.Assert(reply, HasLen, 0)
	c.Assert(<-done, IsNil)

	warned := false
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "Incompatible request from pipe" {
			warned = true
			c.Assert(e.Data[util.LogComponentField], Equals, "portmap")
		}
	}
	c.Assert(warned, Equals, true)
}

func (s *TestSuite) TestServeEmptyConnection(c *C) {
	client, done := serve(NewResponder(703), nil)
	client.Close()
	c.Assert(<-done, IsNil)
}
