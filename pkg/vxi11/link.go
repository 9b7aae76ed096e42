package vxi11

import (
	"io"
	"net"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/bodebridge/vxi11-bridge/pkg/dataconn"
	"github.com/bodebridge/vxi11-bridge/pkg/util"
)

// Link serves the VXI-11 core channel of one TCP connection.
type Link struct {
	ID string

	wire       *dataconn.Wire
	translator Translator
	state      State
	log        logrus.FieldLogger
}

// NewLink serves conn, accepting records of at most maxRecordSize bytes. The
// receive size advertised by create_link is always MaxRecvSize.
func NewLink(conn net.Conn, translator Translator, maxRecordSize uint32) *Link {
	id := uuid.New().String()
	return &Link{
		ID:         id,
		wire:       dataconn.NewWire(conn, maxRecordSize),
		translator: translator,
		state:      StateNoLink,
		log: logrus.WithFields(logrus.Fields{
			util.LogComponentField: "vxi11",
			"session":              id,
			"peer":                 conn.RemoteAddr().String(),
		}),
	}
}

func (l *Link) State() State {
	return l.state
}

// Handle serves records until the link is closed or the peer disconnects.
// Only a failure to drive the generator is returned; protocol problems just
// close the link.
func (l *Link) Handle() error {
	defer l.wire.Close()

	for l.state != StateClosed {
		record, err := l.wire.Read()
		if err != nil {
			if err == io.EOF || errors.Is(err, net.ErrClosed) {
				l.log.Debug("Peer disconnected")
			} else {
				l.log.WithError(err).Warn("Failed to read VXI-11 record")
			}
			l.state = StateClosed
			return nil
		}

		xid, reply, err := l.Process(record)
		if err != nil {
			if errors.Is(err, dataconn.ErrMalformedFrame) || errors.Is(err, ErrUnsupportedProcedure) {
				l.log.WithError(err).Warn("Closing VXI-11 link")
				continue
			}
			return err
		}
		if reply == nil {
			continue
		}
		if err := l.wire.WriteReply(xid, reply); err != nil {
			l.log.WithError(err).Warn("Failed to send VXI-11 reply")
			l.state = StateClosed
		}
	}
	return nil
}

// Process runs one record through the state machine and returns the
// transaction id and reply payload, or a nil payload when nothing is sent.
// Any error leaves the link Closed.
func (l *Link) Process(record []byte) (xid uint32, reply []byte, err error) {
	defer func() {
		if err != nil {
			l.state = StateClosed
		}
	}()

	hdr, err := dataconn.DecodeCallHeader(record)
	if err != nil {
		return 0, nil, err
	}
	if hdr.Program != dataconn.ProgramVXI11Core {
		return 0, nil, errors.Wrapf(dataconn.ErrMalformedFrame, "request from unknown source, program 0x%x", hdr.Program)
	}

	switch {
	case hdr.Procedure == dataconn.ProcCreateLink && l.state == StateNoLink:
		l.log.Debug("Create link")
		l.state = StateLinked
		return hdr.XID, dataconn.EncodeWords(ErrorNone, LinkID, AbortPort, MaxRecvSize), nil

	case hdr.Procedure == dataconn.ProcDeviceWrite && l.state == StateLinked:
		l.log.Debug("Device write")
		payload, err := dataconn.WritePayload(record)
		if err != nil {
			return 0, nil, err
		}
		if err := l.translator.Translate(payload); err != nil {
			return 0, nil, err
		}
		// Device_WriteResp: error, then the number of bytes written.
		return hdr.XID, dataconn.EncodeWords(ErrorNone, uint32(len(payload))), nil

	case hdr.Procedure == dataconn.ProcDeviceRead && l.state == StateLinked:
		l.log.Debug("Device read")
		return hdr.XID, ReadReply(), nil

	case hdr.Procedure == dataconn.ProcDestroyLink && l.state == StateLinked:
		l.log.Debug("Destroy link")
		l.state = StateClosed
		return hdr.XID, nil, nil
	}

	return 0, nil, errors.Wrapf(ErrUnsupportedProcedure, "procedure %d in state %v", hdr.Procedure, l.state)
}

// ReadReply is the device_read result: no error, END set, and the
// identification string with its terminator and padding.
func ReadReply() []byte {
	data := Identification + readTrailer
	reply := dataconn.EncodeWords(ErrorNone, ReasonEnd, uint32(len(data)))
	return append(reply, data...)
}
