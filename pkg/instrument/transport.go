package instrument

import (
	"github.com/sirupsen/logrus"
)

// Open connects to the instrument named by a VISA-style resource identifier.
func Open(id string, opts Options) (Transport, error) {
	res, err := ParseResource(id)
	if err != nil {
		return nil, err
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	if opts.PrologixPort == "" {
		opts.PrologixPort = DefaultPrologixPort
	}
	if opts.Baud == 0 {
		opts.Baud = DefaultBaud
	}

	logrus.Infof("Connecting to generator %v", res)
	switch res.Interface {
	case InterfaceGPIB:
		return openGPIB(res, opts)
	case InterfaceASRL:
		return openSerial(res, opts)
	case InterfaceTCPIP:
		return openSocket(res, opts)
	case InterfaceUSBTMC:
		return openUSBTMC(res, opts)
	}
	return nil, ioError(res.Raw, "open", errUnsupportedInterface)
}
