package generator

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/bodebridge/vxi11-bridge/pkg/instrument"
)

// Session owns the active driver and the transport behind it for the life
// of the process. It is only ever used from the serving goroutine.
type Session struct {
	driver         Driver
	transport      instrument.Transport
	identification string
	closed         bool
}

func NewDummySession() *Session {
	log.Warn("No signal generator configured, running in dummy mode")
	return &Session{driver: &Dummy{}}
}

// Open identifies the instrument behind t, picks the driver for it unless
// variant forces one, and initializes the instrument.
func Open(t instrument.Transport, variant Variant, opts Options) (*Session, error) {
	if err := t.Write("*IDN?"); err != nil {
		return nil, errors.Wrap(err, "failed to query generator identification")
	}
	raw, err := t.ReadRaw()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read generator identification")
	}
	id := NormalizeIdentification(raw)
	log.Infof("Generator identifies as %q", id)

	if variant == VariantAuto || variant == "" {
		variant = SelectVariant(id)
	}
	driver, err := NewDriver(variant, t, opts)
	if err != nil {
		return nil, err
	}
	if err := driver.Init(); err != nil {
		return nil, err
	}
	return &Session{
		driver:         driver,
		transport:      t,
		identification: id,
	}, nil
}

func (s *Session) Driver() Driver {
	return s.driver
}

func (s *Session) Identification() string {
	return s.identification
}

func (s *Session) Apply(d Directive) error {
	log.Debugf("Applying %v with the %v driver", d, s.driver.Variant())
	return Apply(s.driver, d)
}

// Close turns the output off and releases the transport. Only the first
// call does anything; failures are returned together.
func (s *Session) Close() (err error) {
	if s.closed {
		return nil
	}
	s.closed = true

	err = multierr.Append(err, s.driver.OutputOff())
	if s.transport != nil {
		err = multierr.Append(err, errors.Wrap(s.transport.Close(), "failed to close generator transport"))
	}
	return err
}
