package generator

import (
	"bytes"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/bodebridge/vxi11-bridge/pkg/instrument"
)

const (
	DefaultSettleDelay = time.Second
)

type Options struct {
	// SettleDelay is the pause after *RST and SYST:PRES during Init.
	SettleDelay time.Duration
}

type scpiBase struct {
	transport instrument.Transport
	settle    time.Duration
}

func (b *scpiBase) reset() error {
	for _, cmd := range []string{"*RST", "SYST:PRES"} {
		if err := b.transport.Write(cmd); err != nil {
			return errors.Wrap(err, "failed to reset generator")
		}
		time.Sleep(b.settle)
	}
	return errors.Wrap(b.transport.Write("*CLS"), "failed to clear generator status")
}

// command sends cmd and then checks the instrument's error queue. A nonzero
// error code is only logged.
func (b *scpiBase) command(format string, a ...interface{}) error {
	cmd := fmt.Sprintf(format, a...)
	if err := b.transport.Write(cmd); err != nil {
		return err
	}
	if err := b.transport.Write("SYST:ERR?"); err != nil {
		return err
	}
	resp, err := b.transport.ReadRaw()
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(resp, []byte("0")) && !bytes.HasPrefix(resp, []byte("+0")) {
		log.Warnf("Generator reported error after %q: %s", cmd, bytes.TrimSpace(resp))
	}
	return nil
}

func (b *scpiBase) OutputOn() error {
	return errors.Wrap(b.command("OUTP:STAT ON"), "failed to enable output")
}

func (b *scpiBase) OutputOff() error {
	return errors.Wrap(b.command("OUTP:STAT OFF"), "failed to disable output")
}

// SCPI drives a function generator through the SOURce subsystem with
// amplitude in volts peak-to-peak.
type SCPI struct {
	scpiBase
}

func NewSCPI(t instrument.Transport, opts Options) *SCPI {
	return &SCPI{scpiBase{transport: t, settle: opts.SettleDelay}}
}

func (d *SCPI) Variant() Variant { return VariantSCPI }

func (d *SCPI) Init() error {
	log.Info("Using generic SCPI driver")
	return d.reset()
}

func (d *SCPI) SetFrequency(hz float64) error {
	return errors.Wrapf(d.command("SOURce1:FREQ %.3f", hz), "failed to set frequency to %v Hz", hz)
}

func (d *SCPI) SetAmplitude(vpp float64) error {
	return errors.Wrapf(d.command("SOURce1:VOLTage:IMMediate:AMPL %.3f", vpp), "failed to set amplitude to %v Vpp", vpp)
}

func (d *SCPI) SetAmplitudeDbm(dbm float64) error {
	log.WithError(ErrUnsupportedDirective).Warnf("Cannot set amplitude of %v dBm, the generic SCPI driver has no dBm amplitude command", dbm)
	return nil
}

// RF drives a power-leveled RF signal generator whose amplitude control is
// in dBm. Voltages are converted assuming ReferenceLoad.
type RF struct {
	scpiBase
}

func NewRF(t instrument.Transport, opts Options) *RF {
	return &RF{scpiBase{transport: t, settle: opts.SettleDelay}}
}

func (d *RF) Variant() Variant { return VariantRF }

func (d *RF) Init() error {
	log.Info("Using SCPI RF generator driver")
	return d.reset()
}

func (d *RF) SetFrequency(hz float64) error {
	return errors.Wrapf(d.command("FREQ %.3f HZ", hz), "failed to set frequency to %v Hz", hz)
}

func (d *RF) SetAmplitude(vpp float64) error {
	if vpp <= 0 {
		log.WithError(ErrUnsupportedDirective).Warnf("Cannot express an amplitude of %v Vpp in dBm", vpp)
		return nil
	}
	return d.setPower(VppToDbm(vpp))
}

func (d *RF) SetAmplitudeDbm(dbm float64) error {
	return d.setPower(dbm)
}

func (d *RF) setPower(dbm float64) error {
	return errors.Wrapf(d.command("POWER %.3f DBM", dbm), "failed to set power to %v dBm", dbm)
}
