package model

// StripDriver abstracts the bus-level output sink for a Strip. Exactly one
// driver instance should own the underlying bus handle at a time; calls are
// blocking and are not synchronized here, so concurrent callers must
// serialize externally.
type StripDriver interface {
	// Write pushes one frame of wire-ordered channel bytes (GRB or GRBW per
	// pixel) to the strip. len(wire) must be LedCount() times the channel
	// count the driver was configured for.
	Write(wire []byte) error
	// Clear pushes the driver's prebuilt all-off frame.
	Clear() error
	// LedCount reports the number of LEDs the driver was configured for.
	LedCount() int
}
