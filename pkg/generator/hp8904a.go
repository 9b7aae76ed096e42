package generator

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/bodebridge/vxi11-bridge/pkg/instrument"
)

var hp8904aInit = []string{
	"*RST",
	"GM0;>",                      // channel configuration mode, show channel A
	"OO1OF;OO2OF;FC1OF;FC2OF",    // outputs off, not floating
	"WFASI;FRA1KZ;APA1VL;PHA0DG", // channel A sine 1 kHz 1 V phase 0
	"WFBSI;FRB1KZ;APB1VL;PHB0DG",
	"DEAOC1;DEBOC2;DECOF;DEDOF", // A and B to outputs 1 and 2, C and D off
}

// HP8904A drives the HP 8904A multifunction synthesizer. Its private command
// set has no error queue; channels A and B are always set together.
type HP8904A struct {
	transport instrument.Transport
}

func NewHP8904A(t instrument.Transport) *HP8904A {
	return &HP8904A{transport: t}
}

func (d *HP8904A) Variant() Variant { return VariantHP8904A }

func (d *HP8904A) Init() error {
	log.Info("Using HP 8904A driver")
	for _, cmd := range hp8904aInit {
		if err := d.transport.Write(cmd); err != nil {
			return errors.Wrap(err, "failed to initialize HP 8904A")
		}
	}
	return nil
}

func (d *HP8904A) SetFrequency(hz float64) error {
	cmd := fmt.Sprintf("FRA%.1fHZ;FRB%.1fHZ", hz, hz)
	return errors.Wrapf(d.transport.Write(cmd), "failed to set frequency to %v Hz", hz)
}

func (d *HP8904A) SetAmplitude(vpp float64) error {
	cmd := fmt.Sprintf("APA%.6fVL;APB%.6fVL", vpp, vpp)
	return errors.Wrapf(d.transport.Write(cmd), "failed to set amplitude to %v Vpp", vpp)
}

func (d *HP8904A) SetAmplitudeDbm(dbm float64) error {
	return d.SetAmplitude(DbmToVpp(dbm))
}

func (d *HP8904A) OutputOn() error {
	return errors.Wrap(d.transport.Write("OO1ON;OO2ON"), "failed to enable outputs")
}

func (d *HP8904A) OutputOff() error {
	return errors.Wrap(d.transport.Write("OO1OF;OO2OF"), "failed to disable outputs")
}
