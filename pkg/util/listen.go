package util

import (
	"context"
	"net"
	"strconv"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// ListenConfig sets SO_REUSEADDR so a restarted bridge can rebind the
// privileged ports while old connections sit in TIME_WAIT.
func ListenConfig() *net.ListenConfig {
	return &net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var sockErr error
			if err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
			}); err != nil {
				return err
			}
			return sockErr
		},
	}
}

func Listen(ctx context.Context, host string, port int) (net.Listener, error) {
	address := net.JoinHostPort(host, strconv.Itoa(port))
	l, err := ListenConfig().Listen(ctx, "tcp", address)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to listen on %v", address)
	}
	return l, nil
}

// ListenerPort returns the TCP port l is bound to.
func ListenerPort(l net.Listener) int {
	if addr, ok := l.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}
