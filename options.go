package sudscale

// Options tunes a single Scale call.
type Options struct {
	// NoRepair skips the capacity repair pass, leaving planC over-fills in place.
	NoRepair bool
}
