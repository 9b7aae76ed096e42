package instrument

import (
	"net"
	"strconv"
	"time"

	"github.com/ziutek/telnet"
)

// socketTransport speaks SCPI over a raw TCP socket (or an instrument's
// telnet console) one line at a time.
type socketTransport struct {
	resource string
	conn     *telnet.Conn
	timeout  time.Duration
}

func openSocket(res *Resource, opts Options) (Transport, error) {
	addr := net.JoinHostPort(res.Host, strconv.Itoa(res.Port))
	conn, err := telnet.Dial("tcp", addr)
	if err != nil {
		return nil, ioError(res.Raw, "dial "+addr, err)
	}
	return &socketTransport{
		resource: res.Raw,
		conn:     conn,
		timeout:  opts.ReadTimeout,
	}, nil
}

func (t *socketTransport) Write(cmd string) error {
	_, err := t.conn.Write([]byte(cmd + lineTerminator))
	return ioError(t.resource, "write "+cmd, err)
}

func (t *socketTransport) ReadRaw() ([]byte, error) {
	if err := t.conn.SetReadDeadline(time.Now().Add(t.timeout)); err != nil {
		return nil, ioError(t.resource, "set read deadline", err)
	}
	line, err := t.conn.ReadBytes('\n')
	if err != nil {
		return nil, ioError(t.resource, "read", err)
	}
	return line, nil
}

func (t *socketTransport) Close() error {
	return ioError(t.resource, "close", t.conn.Close())
}
