package generator

import (
	"fmt"

	"github.com/pkg/errors"
)

type DirectiveKind string

const (
	DirectiveSetFrequency    = DirectiveKind("SetFrequency")
	DirectiveSetAmplitude    = DirectiveKind("SetAmplitude")
	DirectiveSetAmplitudeDbm = DirectiveKind("SetAmplitudeDbm")
	DirectiveOutputOn        = DirectiveKind("OutputOn")
	DirectiveOutputOff       = DirectiveKind("OutputOff")
)

// Directive is one abstract generator command. Value is in hertz, volts
// peak-to-peak or dBm depending on Kind, and unused for output control.
type Directive struct {
	Kind  DirectiveKind
	Value float64
}

func SetFrequency(hz float64) Directive {
	return Directive{Kind: DirectiveSetFrequency, Value: hz}
}

func SetAmplitude(vpp float64) Directive {
	return Directive{Kind: DirectiveSetAmplitude, Value: vpp}
}

func SetAmplitudeDbm(dbm float64) Directive {
	return Directive{Kind: DirectiveSetAmplitudeDbm, Value: dbm}
}

func OutputOn() Directive {
	return Directive{Kind: DirectiveOutputOn}
}

func OutputOff() Directive {
	return Directive{Kind: DirectiveOutputOff}
}

func (d Directive) String() string {
	switch d.Kind {
	case DirectiveOutputOn, DirectiveOutputOff:
		return string(d.Kind)
	}
	return fmt.Sprintf("%v(%v)", d.Kind, d.Value)
}

// Apply dispatches d to the matching Driver operation.
func Apply(driver Driver, d Directive) error {
	switch d.Kind {
	case DirectiveSetFrequency:
		return driver.SetFrequency(d.Value)
	case DirectiveSetAmplitude:
		return driver.SetAmplitude(d.Value)
	case DirectiveSetAmplitudeDbm:
		return driver.SetAmplitudeDbm(d.Value)
	case DirectiveOutputOn:
		return driver.OutputOn()
	case DirectiveOutputOff:
		return driver.OutputOff()
	}
	return errors.Errorf("unknown directive %v", d.Kind)
}
