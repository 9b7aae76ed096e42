package vxi11

import (
	"github.com/pkg/errors"
)

type State string

const (
	StateNoLink = State("NoLink")
	StateLinked = State("Linked")
	StateClosed = State("Closed")
)

const (
	// Identification is what every device_read returns, whatever was queried.
	Identification = "IDN-SGLT-PRI SDG0000X"

	// DefaultPort is the core channel port returned by the portmap responder.
	DefaultPort = 703

	ErrorNone   = uint32(0)
	ReasonEnd   = uint32(4)
	LinkID      = uint32(0)
	AbortPort   = uint32(0)
	MaxRecvSize = uint32(0x800000)

	readTrailer = "\n\x00\x00"
)

var (
	ErrUnsupportedProcedure = errors.New("unsupported procedure")
)

// Translator consumes the data of each device_write.
type Translator interface {
	Translate(payload []byte) error
}
