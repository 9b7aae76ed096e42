package instrument

import (
	"fmt"
	"os"
)

// usbtmcTransport uses the Linux usbtmc kernel driver, which delivers one
// complete instrument message per read(2).
type usbtmcTransport struct {
	resource string
	dev      *os.File
}

func usbtmcDevice(board int) string {
	return fmt.Sprintf("/dev/usbtmc%d", board)
}

func openUSBTMC(res *Resource, opts Options) (Transport, error) {
	path := usbtmcDevice(res.Board)
	dev, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, ioError(res.Raw, "open "+path, err)
	}
	return &usbtmcTransport{
		resource: res.Raw,
		dev:      dev,
	}, nil
}

func (t *usbtmcTransport) Write(cmd string) error {
	_, err := t.dev.WriteString(cmd + lineTerminator)
	return ioError(t.resource, "write "+cmd, err)
}

func (t *usbtmcTransport) ReadRaw() ([]byte, error) {
	buf := make([]byte, maxResponse)
	n, err := t.dev.Read(buf)
	if err != nil {
		return nil, ioError(t.resource, "read", err)
	}
	return buf[:n], nil
}

func (t *usbtmcTransport) Close() error {
	return ioError(t.resource, "close", t.dev.Close())
}
