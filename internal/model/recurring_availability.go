package model

import (
	"time"

	"github.com/google/uuid"
)

// RecurringAvailability is a weekly template that the generator expands into
// availability slots.
type RecurringAvailability struct {
	ID              uuid.UUID `json:"id"`
	GroupID         uuid.UUID `json:"groupId"` // templates created together share a group
	ProfessorID     uuid.UUID `json:"professorId"`
	Weekday         int       `json:"weekday"`         // 0 = Sunday, 6 = Saturday
	StartHour       int       `json:"startHour"`       // 0-23, UTC
	StartMinute     int       `json:"startMinute"`     // 0-59
	DurationMinutes int       `json:"durationMinutes"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// OccurrenceOn returns the interval this template produces on date's day.
func (r *RecurringAvailability) OccurrenceOn(date time.Time) Interval {
	start := time.Date(date.Year(), date.Month(), date.Day(), r.StartHour, r.StartMinute, 0, 0, time.UTC)
	return Interval{Start: start, End: start.Add(time.Duration(r.DurationMinutes) * time.Minute)}
}
