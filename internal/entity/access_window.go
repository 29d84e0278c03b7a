package entity

import "time"

// AccessWindow is the validity period of a grant. Start and End are
// inclusive dates; the equivalent day count is (End - Start) + 1.
type AccessWindow struct {
	Start time.Time
	End   time.Time
}

// WindowFromDays builds an inclusive window of days length starting at
// start. days must be >= 1 for the window to be valid.
func WindowFromDays(start time.Time, days int) AccessWindow {
	return AccessWindow{
		Start: start,
		End:   start.AddDate(0, 0, days-1),
	}
}

// Days converts the window back to its inclusive day count.
func (w AccessWindow) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}

// Valid reports whether the window is not inverted.
func (w AccessWindow) Valid() bool {
	return !w.End.Before(w.Start)
}

// IsZero reports whether neither bound was provided.
func (w AccessWindow) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}
