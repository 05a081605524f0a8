package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "PENDING" // awaiting the professor
	AppointmentStatusConfirmed AppointmentStatus = "CONFIRMED"
	AppointmentStatusCancelled AppointmentStatus = "CANCELLED"
	AppointmentStatusCompleted AppointmentStatus = "COMPLETED"
)

// Valid reports whether s is one of the four known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCancelled, AppointmentStatusCompleted:
		return true
	}
	return false
}

type Appointment struct {
	ID             uuid.UUID         `json:"id"`
	AvailabilityID uuid.UUID         `json:"availabilityId"`
	StudentID      uuid.UUID         `json:"studentId"`
	ProfessorID    uuid.UUID         `json:"professorId"`
	StartTime      time.Time         `json:"startTime"`
	EndTime        time.Time         `json:"endTime"`
	Status         AppointmentStatus `json:"status"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`

	// Professor is populated by conflict queries (name and role only).
	Professor *User `json:"professor,omitempty"`
}

func (a *Appointment) Interval() Interval {
	return Interval{Start: a.StartTime, End: a.EndTime}
}
