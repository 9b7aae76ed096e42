package dataconn

import (
	"bufio"
	"io"
	"net"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	hd "github.com/jguillaumes/go-hexdump"
)

// Wire reads and writes single-fragment RPC records on a stream connection.
type Wire struct {
	conn          net.Conn
	writer        *bufio.Writer
	reader        io.Reader
	readHeader    []byte
	maxRecordSize uint32
}

func NewWire(conn net.Conn, maxRecordSize uint32) *Wire {
	if maxRecordSize == 0 {
		maxRecordSize = DefaultMaxRecordSize
	}
	return &Wire{
		conn:          conn,
		writer:        bufio.NewWriterSize(conn, writeBufferSize),
		reader:        bufio.NewReaderSize(conn, readBufferSize),
		readHeader:    make([]byte, 4),
		maxRecordSize: maxRecordSize,
	}
}

// Read returns one record including its 4-byte record mark, so that the
// fixed offsets of the protocol apply to the returned buffer unchanged.
func (w *Wire) Read() ([]byte, error) {
	if _, err := io.ReadFull(w.reader, w.readHeader); err != nil {
		return nil, err
	}

	mark, err := Bytes2Int(w.readHeader)
	if err != nil {
		return nil, err
	}
	if mark&LastFragment == 0 {
		return nil, errors.Wrap(ErrMalformedFrame, "fragmented records are not supported")
	}
	length := mark & fragmentLength
	if length > w.maxRecordSize {
		return nil, errors.Wrapf(ErrMalformedFrame, "record of %d bytes exceeds the %d byte limit", length, w.maxRecordSize)
	}

	record := make([]byte, 4+length)
	copy(record, w.readHeader)
	if _, err := io.ReadFull(w.reader, record[4:]); err != nil {
		return nil, err
	}

	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		logrus.Tracef("Received record from %v:\n%s", w.conn.RemoteAddr(), hd.HexDump(record, "ISO8859-1"))
	}
	return record, nil
}

func (w *Wire) WriteReply(xid uint32, payload []byte) error {
	record := EncodeReply(xid, payload)
	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		logrus.Tracef("Sending record to %v:\n%s", w.conn.RemoteAddr(), hd.HexDump(record, "ISO8859-1"))
	}
	if _, err := w.writer.Write(record); err != nil {
		return err
	}
	return w.writer.Flush()
}

func (w *Wire) RemoteAddr() net.Addr {
	return w.conn.RemoteAddr()
}

func (w *Wire) Close() error {
	return w.conn.Close()
}
