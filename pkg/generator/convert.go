package generator

import "math"

const (
	// ReferenceLoad is the load impedance assumed for every dBm conversion.
	ReferenceLoad = 50.0

	// Vpp²/8 is Vrms² of a sine; dBm is referenced to 1 mW.
	sineMilliwattFactor = 8.0 / 1000
)

// DbmToVpp converts a power level across ReferenceLoad to sine peak-to-peak volts.
func DbmToVpp(dbm float64) float64 {
	return math.Sqrt(math.Pow(10, dbm/10) * ReferenceLoad * sineMilliwattFactor)
}

// VppToDbm is the inverse of DbmToVpp.
func VppToDbm(vpp float64) float64 {
	return 10 * math.Log10(vpp*vpp/ReferenceLoad/sineMilliwattFactor)
}
