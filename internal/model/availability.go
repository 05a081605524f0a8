package model

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilitySlot is a window a professor publishes as bookable.
type AvailabilitySlot struct {
	ID          uuid.UUID `json:"id"`
	ProfessorID uuid.UUID `json:"professorId"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	CreatedAt   time.Time `json:"createdAt"`

	// Populated on read, not stored in availability_slots
	Appointments []*Appointment `json:"appointments,omitempty"`
}

func (s *AvailabilitySlot) Interval() Interval {
	return Interval{Start: s.StartTime, End: s.EndTime}
}

// SlotWindow is the short form of a slot returned in conflict reports.
type SlotWindow struct {
	ID        uuid.UUID `json:"id"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

func (s *AvailabilitySlot) Window() SlotWindow {
	return SlotWindow{ID: s.ID, StartTime: s.StartTime, EndTime: s.EndTime}
}

func Windows(slots []*AvailabilitySlot) []SlotWindow {
	windows := make([]SlotWindow, 0, len(slots))
	for _, slot := range slots {
		windows = append(windows, slot.Window())
	}
	return windows
}
