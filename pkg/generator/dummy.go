package generator

// Dummy stands in for a missing generator; every operation is a no-op.
type Dummy struct{}

func (d *Dummy) Variant() Variant                  { return VariantDummy }
func (d *Dummy) Init() error                       { return nil }
func (d *Dummy) SetFrequency(hz float64) error     { return nil }
func (d *Dummy) SetAmplitude(vpp float64) error    { return nil }
func (d *Dummy) SetAmplitudeDbm(dbm float64) error { return nil }
func (d *Dummy) OutputOn() error                   { return nil }
func (d *Dummy) OutputOff() error                  { return nil }
