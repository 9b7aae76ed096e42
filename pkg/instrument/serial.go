package instrument

import (
	"bytes"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/tarm/serial"
)

// serialPollInterval is the per-read timeout of the port. A read that times
// out returns no data and is retried until ReadTimeout has passed.
const serialPollInterval = 100 * time.Millisecond

var errReadTimeout = errors.New("timed out waiting for a response line")

type serialTransport struct {
	resource string
	port     io.ReadWriteCloser
	timeout  time.Duration
	buf      []byte
}

func openSerial(res *Resource, opts Options) (Transport, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        res.Device,
		Baud:        opts.Baud,
		ReadTimeout: serialPollInterval,
	})
	if err != nil {
		return nil, ioError(res.Raw, "open "+res.Device, err)
	}
	return newSerialTransport(res.Raw, port, opts.ReadTimeout), nil
}

func newSerialTransport(resource string, port io.ReadWriteCloser, timeout time.Duration) *serialTransport {
	return &serialTransport{
		resource: resource,
		port:     port,
		timeout:  timeout,
	}
}

func (t *serialTransport) Write(cmd string) error {
	_, err := t.port.Write([]byte(cmd + lineTerminator))
	return ioError(t.resource, "write "+cmd, err)
}

// ReadRaw returns the next line, terminator included. Bytes after it are
// kept for the following call.
func (t *serialTransport) ReadRaw() ([]byte, error) {
	deadline := time.Now().Add(t.timeout)
	chunk := make([]byte, 256)
	for {
		if i := bytes.IndexByte(t.buf, '\n'); i >= 0 {
			line := append([]byte(nil), t.buf[:i+1]...)
			t.buf = t.buf[i+1:]
			return line, nil
		}
		if len(t.buf) > maxResponse {
			t.buf = nil
			return nil, ioError(t.resource, "read", errors.Errorf("response exceeds %d bytes", maxResponse))
		}

		n, err := t.port.Read(chunk)
		t.buf = append(t.buf, chunk[:n]...)
		// tarm/serial reports an expired read timeout as io.EOF.
		if err != nil && err != io.EOF {
			return nil, ioError(t.resource, "read", err)
		}
		if n == 0 && !time.Now().Before(deadline) {
			return nil, ioError(t.resource, "read", errReadTimeout)
		}
	}
}

func (t *serialTransport) Close() error {
	return ioError(t.resource, "close", t.port.Close())
}
