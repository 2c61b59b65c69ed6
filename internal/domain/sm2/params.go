package sm2

import "time"

// Params defines the configurable parameters for the SM-2 scheduler.
type Params struct {
	// MinEasiness is the floor applied to the easiness factor after every
	// update. There is no ceiling; easiness grows without bound for cards
	// that are consistently easy.
	MinEasiness float64

	// InitialEasiness is the easiness assigned to fresh and reset schedules.
	InitialEasiness float64

	// FirstInterval is the interval (in days) after the first correct
	// repetition, and also the interval a failed card falls back to.
	FirstInterval int

	// SecondInterval is the interval (in days) after the second correct
	// repetition. From the third repetition on, intervals grow
	// multiplicatively by the easiness factor.
	SecondInterval int

	// Location is the time zone used when computing calendar-day
	// differences for the due predicate. Due-ness crosses at local
	// midnight, not on a rolling 24-hour window, so this changes
	// observable timing by up to a day.
	Location *time.Location
}

// NewDefaultParams creates a Params instance with the standard SM-2 values.
func NewDefaultParams() *Params {
	return &Params{
		MinEasiness:     1.3,
		InitialEasiness: 2.5,
		FirstInterval:   1,
		SecondInterval:  6,
		Location:        time.Local,
	}
}
