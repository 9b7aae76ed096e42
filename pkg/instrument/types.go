package instrument

import (
	"time"

	"github.com/pkg/errors"
)

// ErrInstrumentIO marks every failure to talk to the signal generator.
var ErrInstrumentIO = errors.New("instrument I/O error")

var errUnsupportedInterface = errors.New("unsupported interface")

const (
	DefaultPrologixPort = "/dev/ttyUSB0"
	DefaultSocketPort   = 5025
	DefaultReadTimeout  = 5 * time.Second
	DefaultBaud         = 9600

	lineTerminator = "\n"
	maxResponse    = 64 * 1024
)

// Transport is a line-oriented connection to a real instrument.
type Transport interface {
	Write(cmd string) error
	ReadRaw() ([]byte, error)
	Close() error
}

type Options struct {
	// PrologixPort is the serial device of the Prologix GPIB-USB controller
	// used for GPIB resources.
	PrologixPort string
	ReadTimeout  time.Duration

	// Baud is the line speed of ASRL resources.
	Baud int
}

// IOError wraps a transport failure; errors.Is(err, ErrInstrumentIO) holds for it.
type IOError struct {
	Op       string
	Resource string
	Err      error
}

func (e *IOError) Error() string {
	return "instrument " + e.Resource + ": " + e.Op + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrInstrumentIO
}

func ioError(resource, op string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Resource: resource, Err: err}
}
