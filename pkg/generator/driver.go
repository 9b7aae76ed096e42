package generator

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/bodebridge/vxi11-bridge/pkg/instrument"
	"github.com/bodebridge/vxi11-bridge/pkg/util"
)

var log = logrus.WithField(util.LogComponentField, "generator")

// ErrUnsupportedDirective is logged, never returned, by drivers that cannot
// express a directive.
var ErrUnsupportedDirective = errors.New("unsupported directive")

type Variant string

const (
	VariantAuto    = Variant("auto")
	VariantDummy   = Variant("dummy")
	VariantSCPI    = Variant("scpi")
	VariantRF      = Variant("rf")
	VariantHP8904A = Variant("hp8904a")

	legacyModelPrefix = "HP 8904A"
)

// Driver is the capability set shared by every generator dialect.
type Driver interface {
	Variant() Variant
	Init() error

	SetFrequency(hz float64) error
	SetAmplitude(vpp float64) error
	SetAmplitudeDbm(dbm float64) error
	OutputOn() error
	OutputOff() error
}

func ParseVariant(s string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(s)))
	switch v {
	case "":
		return VariantAuto, nil
	case VariantAuto, VariantDummy, VariantSCPI, VariantRF, VariantHP8904A:
		return v, nil
	}
	return "", errors.Errorf("unknown generator driver %q", s)
}

// NormalizeIdentification collapses the runs of spaces some instruments pad
// their *IDN? reply with, and strips the line terminator.
func NormalizeIdentification(raw []byte) string {
	id := strings.TrimRight(string(raw), "\r\n\x00")
	for strings.Contains(id, "  ") {
		id = strings.ReplaceAll(id, "  ", " ")
	}
	return id
}

// SelectVariant picks the dialect for an instrument from its normalized
// identification string.
func SelectVariant(id string) Variant {
	if strings.HasPrefix(id, legacyModelPrefix) {
		return VariantHP8904A
	}
	return VariantSCPI
}

func NewDriver(v Variant, t instrument.Transport, opts Options) (Driver, error) {
	switch v {
	case VariantDummy:
		return &Dummy{}, nil
	case VariantSCPI:
		return NewSCPI(t, opts), nil
	case VariantRF:
		return NewRF(t, opts), nil
	case VariantHP8904A:
		return NewHP8904A(t), nil
	}
	return nil, errors.Errorf("cannot create a driver for variant %q", v)
}
