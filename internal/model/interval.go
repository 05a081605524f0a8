package model

import (
	"errors"
	"time"
)

var (
	ErrInvalidInterval = errors.New("end time must be after start time")
	ErrPastInterval    = errors.New("start time must be in the future")
)

// Interval is a time range used for both availability slots and appointments.
// An interval whose End equals another's Start does not overlap it.
type Interval struct {
	Start time.Time `json:"startTime"`
	End   time.Time `json:"endTime"`
}

func NewInterval(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// Validate checks ordering first, then that the interval starts strictly after now.
func (i Interval) Validate(now time.Time) error {
	if !i.Start.Before(i.End) {
		return ErrInvalidInterval
	}
	if !i.Start.After(now) {
		return ErrPastInterval
	}
	return nil
}

// Overlaps reports whether i and o share at least one instant:
// o starts inside i, i starts inside o, or i lies within o.
func (i Interval) Overlaps(o Interval) bool {
	oStartsInside := !o.Start.Before(i.Start) && o.Start.Before(i.End)
	iStartsInside := !i.Start.Before(o.Start) && i.Start.Before(o.End)
	iWithinO := !i.Start.Before(o.Start) && !i.End.After(o.End)
	return oStartsInside || iStartsInside || iWithinO
}

// Within reports whether i lies inside outer, bounds inclusive.
func (i Interval) Within(outer Interval) bool {
	return !i.Start.Before(outer.Start) &&
		!i.Start.After(outer.End) &&
		!i.End.After(outer.End) &&
		!i.End.Before(outer.Start)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}
