package portmap

import (
	"io"
	"net"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/bodebridge/vxi11-bridge/pkg/dataconn"
	"github.com/bodebridge/vxi11-bridge/pkg/util"
)

var log = logrus.WithField(util.LogComponentField, "portmap")

const (
	DefaultPort = 111
)

// Responder answers portmap GETPORT queries for the VXI-11 core program
// with a single fixed port.
type Responder struct {
	corePort uint32
}

func NewResponder(corePort uint32) *Responder {
	return &Responder{corePort: corePort}
}

// Reply returns the reply payload for a GETPORT record, or an error wrapping
// dataconn.ErrMalformedFrame when the record asks for anything else.
func (r *Responder) Reply(record []byte) (xid uint32, payload []byte, err error) {
	hdr, err := dataconn.DecodeCallHeader(record)
	if err != nil {
		return 0, nil, err
	}
	if hdr.Procedure != dataconn.ProcGetPort {
		return 0, nil, errors.Wrapf(dataconn.ErrMalformedFrame, "portmap procedure %d is not GETPORT", hdr.Procedure)
	}
	program, err := dataconn.Uint32At(record, dataconn.OffsetGetPortProgram)
	if err != nil {
		return 0, nil, err
	}
	if program != dataconn.ProgramVXI11Core {
		return 0, nil, errors.Wrapf(dataconn.ErrMalformedFrame, "GETPORT for program 0x%x", program)
	}
	return hdr.XID, dataconn.Int2Bytes(r.corePort), nil
}

// Serve answers one request on conn and closes it. Incompatible requests
// are dropped without a reply.
func (r *Responder) Serve(conn net.Conn, maxRecordSize uint32) error {
	wire := dataconn.NewWire(conn, maxRecordSize)
	defer wire.Close()

	record, err := wire.Read()
	if err != nil {
		if err == io.EOF {
			log.Debugf("Portmap peer %v disconnected without a request", conn.RemoteAddr())
			return nil
		}
		return errors.Wrap(err, "failed to read portmap request")
	}

	xid, payload, err := r.Reply(record)
	if err != nil {
		log.WithError(err).Warnf("Incompatible request from %v", conn.RemoteAddr())
		return nil
	}
	log.Debugf("Portmap GETPORT from %v, answering port %d", conn.RemoteAddr(), r.corePort)
	return errors.Wrap(wire.WriteReply(xid, payload), "failed to send portmap reply")
}
