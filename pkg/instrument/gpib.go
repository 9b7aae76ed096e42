package instrument

import (
	"io"
	"strings"

	"github.com/gotmc/prologix"
	"github.com/gotmc/prologix/driver/vcp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// gpibTransport talks to a GPIB instrument through a Prologix GPIB-USB
// controller. Queries are answered by the controller in one round trip, so
// the response is held until ReadRaw collects it.
type gpibTransport struct {
	resource string
	port     io.ReadWriteCloser
	gpib     *prologix.Controller
	pending  []byte
}

func openGPIB(res *Resource, opts Options) (Transport, error) {
	port, err := vcp.NewVCP(opts.PrologixPort)
	if err != nil {
		return nil, ioError(res.Raw, "open "+opts.PrologixPort, err)
	}
	t, err := newGPIBTransport(res, port)
	if err != nil {
		port.Close()
		return nil, err
	}
	logrus.Infof("Using Prologix controller on %v for GPIB address %d", opts.PrologixPort, res.Address)
	return t, nil
}

// newGPIBTransport configures the controller behind port for the
// instrument's primary address.
func newGPIBTransport(res *Resource, port io.ReadWriteCloser) (*gpibTransport, error) {
	gpib, err := prologix.NewController(port, res.Address, false)
	if err != nil {
		return nil, ioError(res.Raw, "configure Prologix controller", err)
	}
	return &gpibTransport{
		resource: res.Raw,
		port:     port,
		gpib:     gpib,
	}, nil
}

func (t *gpibTransport) Write(cmd string) error {
	if strings.HasSuffix(strings.TrimSpace(cmd), "?") {
		resp, err := t.gpib.Query(cmd)
		if err != nil {
			return ioError(t.resource, "query "+cmd, err)
		}
		t.pending = []byte(resp)
		return nil
	}
	t.pending = nil
	return ioError(t.resource, "write "+cmd, t.gpib.Command("%s", cmd))
}

func (t *gpibTransport) ReadRaw() ([]byte, error) {
	if t.pending == nil {
		return nil, ioError(t.resource, "read", errors.New("no query response pending"))
	}
	resp := t.pending
	t.pending = nil
	return resp, nil
}

func (t *gpibTransport) Close() error {
	return ioError(t.resource, "close", t.port.Close())
}
