package service

import (
	"errors"

	"github.com/Freeeeeet/office_hours/internal/lock"
	"github.com/Freeeeeet/office_hours/internal/model"
)

var (
	ErrInvalidInterval     = model.ErrInvalidInterval
	ErrPastInterval        = model.ErrPastInterval
	ErrProfessorNotFound   = errors.New("no professor found for given id")
	ErrSlotNotFound        = errors.New("no availability slot found for given id and professor")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidStatus       = errors.New("status value is not valid")
	ErrAvailabilityOverlap = errors.New("time slot overlaps with existing availability slots")
	ErrOutsideAvailability = errors.New("professor is not available for this duration")
	ErrNotAppointmentOwner = errors.New("appointment belongs to another professor")

	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email is already registered")
	ErrInvalidRole       = errors.New("role must be either STUDENT or PROFESSOR")
	ErrInvalidRecurrence = errors.New("invalid recurring availability")
	ErrRecurringNotFound = errors.New("recurring availability group not found")
	ErrNotRecurringOwner = errors.New("recurring availability group belongs to another professor")
	ErrReservationBusy   = lock.ErrBusy
)

// AvailabilityOverlapError is returned when a new slot overlaps slots the
// professor already published.
type AvailabilityOverlapError struct {
	Conflicting []model.SlotWindow
}

func (e *AvailabilityOverlapError) Error() string {
	return ErrAvailabilityOverlap.Error()
}

func (e *AvailabilityOverlapError) Unwrap() error {
	return ErrAvailabilityOverlap
}

// OutsideAvailabilityError carries the requested slot and every window of the
// professor so the caller can pick a valid alternative.
type OutsideAvailabilityError struct {
	ThisWindow model.SlotWindow
	AllWindows []model.SlotWindow
}

func (e *OutsideAvailabilityError) Error() string {
	return ErrOutsideAvailability.Error()
}

func (e *OutsideAvailabilityError) Unwrap() error {
	return ErrOutsideAvailability
}
