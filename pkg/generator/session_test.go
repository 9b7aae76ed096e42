package generator

import (
	"github.com/pkg/errors"

	. "gopkg.in/check.v1"

	"github.com/bodebridge/vxi11-bridge/pkg/instrument"
)

func (s *TestSuite) TestNormalizeIdentification(c *C) {
	c.Assert(NormalizeIdentification([]byte("HP  8904A    MULTIFUNCTION   SYNTHESIZER\r\n")), Equals, "HP 8904A MULTIFUNCTION SYNTHESIZER")
	c.Assert(NormalizeIdentification([]byte("Rohde&Schwarz,SMB100A,1406.6000k03/123456,3.1.19.15\n")), Equals, "Rohde&Schwarz,SMB100A,1406.6000k03/123456,3.1.19.15")
}

func (s *TestSuite) TestSelectVariant(c *C) {
	c.Assert(SelectVariant("HP 8904A MULTIFUNCTION SYNTHESIZER"), Equals, VariantHP8904A)
	c.Assert(SelectVariant("HP 8904"), Equals, VariantSCPI)
	c.Assert(SelectVariant("Agilent Technologies,33220A,MY44012345,2.02"), Equals, VariantSCPI)
	c.Assert(SelectVariant(""), Equals, VariantSCPI)
}

func (s *TestSuite) TestParseVariant(c *C) {
	for in, expected := range map[string]Variant{"": VariantAuto, "AUTO": VariantAuto, "rf": VariantRF, " hp8904a ": VariantHP8904A, "scpi": VariantSCPI, "dummy": VariantDummy} {
		v, err := ParseVariant(in)
		c.Assert(err, IsNil)
		c.Assert(v, Equals, expected)
	}
	_, err := ParseVariant("sdg1000")
	c.Assert(err, NotNil)
}

func (s *TestSuite) TestOpenSelectsLegacy(c *C) {
	fake := instrument.NewFake(map[string]string{"*IDN?": "HP  8904A  MULTIFUNCTION SYNTHESIZER\n"})
	session, err := Open(fake, VariantAuto, Options{})
	c.Assert(err, IsNil)
	c.Assert(session.Driver().Variant(), Equals, VariantHP8904A)
	c.Assert(session.Identification(), Equals, "HP 8904A MULTIFUNCTION SYNTHESIZER")
	c.Assert(fake.Written[0], Equals, "*IDN?")
	c.Assert(fake.Written[1:], DeepEquals, hp8904aInit)
}

func (s *TestSuite) TestOpenDefaultsToSCPI(c *C) {
	fake := instrument.NewFake(map[string]string{
		"*IDN?":     "Agilent Technologies,33220A,MY44012345,2.02-2.02-22-2\n",
		"SYST:ERR?": errorFree,
	})
	session, err := Open(fake, VariantAuto, Options{})
	c.Assert(err, IsNil)
	c.Assert(session.Driver().Variant(), Equals, VariantSCPI)
	c.Assert(fake.Written, DeepEquals, []string{"*IDN?", "*RST", "SYST:PRES", "*CLS"})
}

func (s *TestSuite) TestOpenForcedVariant(c *C) {
	fake := instrument.NewFake(map[string]string{"*IDN?": "HP 8904A\n"})
	session, err := Open(fake, VariantRF, Options{})
	c.Assert(err, IsNil)
	c.Assert(session.Driver().Variant(), Equals, VariantRF)
}

func (s *TestSuite) TestOpenIdentificationFailure(c *C) {
	fake := instrument.NewFake(nil)
	_, err := Open(fake, VariantAuto, Options{})
	c.Assert(errors.Is(err, instrument.ErrInstrumentIO), Equals, true)
}

func (s *TestSuite) TestSessionCloseTurnsOutputOffOnce(c *C) {
	fake := instrument.NewFake(map[string]string{"*IDN?": "HP 8904A\n"})
	session, err := Open(fake, VariantAuto, Options{})
	c.Assert(err, IsNil)

	c.Assert(session.Apply(OutputOn()), IsNil)
	c.Assert(session.Close(), IsNil)
	c.Assert(session.Close(), IsNil)

	c.Assert(fake.Count("OO1OF;OO2OF"), Equals, 1)
	c.Assert(fake.Written[len(fake.Written)-1], Equals, "OO1OF;OO2OF")
	c.Assert(fake.Closed, Equals, true)
}

func (s *TestSuite) TestSessionCloseReportsFailures(c *C) {
	fake := instrument.NewFake(map[string]string{"*IDN?": "HP 8904A\n"})
	session, err := Open(fake, VariantAuto, Options{})
	c.Assert(err, IsNil)

	fake.FailOn = "OO1OF"
	err = session.Close()
	c.Assert(errors.Is(err, instrument.ErrInstrumentIO), Equals, true)
	c.Assert(fake.Closed, Equals, true)
}

func (s *TestSuite) TestDummySession(c *C) {
	session := NewDummySession()
	c.Assert(session.Apply(SetFrequency(100)), IsNil)
	c.Assert(session.Close(), IsNil)
	c.Assert(session.Driver().Variant(), Equals, VariantDummy)
}
