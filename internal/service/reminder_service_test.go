package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/office_hours/internal/clock"
	"github.com/Freeeeeet/office_hours/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReminderService_SendUpcoming(t *testing.T) {
	users := newMockUserStore()
	appointments := newMockAppointmentStore(users)
	slots := newMockSlotStore()
	notifier := &mockNotifier{}
	clk := clock.NewFixed(at(8, 0))

	professor := users.add("Ada", model.RoleProfessor)
	student := users.add("Ben", model.RoleStudent)
	slot := slots.add(professor.ID, iv(8, 0, 12, 0))

	soon := appointments.add(slot, student.ID, iv(8, 30, 8, 45), model.AppointmentStatusConfirmed)
	atLead := appointments.add(slot, student.ID, iv(9, 0, 9, 15), model.AppointmentStatusConfirmed)
	later := appointments.add(slot, student.ID, iv(9, 30, 9, 45), model.AppointmentStatusConfirmed)
	appointments.add(slot, student.ID, iv(8, 45, 9, 0), model.AppointmentStatusPending)

	svc := NewReminderService(appointments, users, notifier, clk, time.Hour, zap.NewNop())
	ctx := context.Background()

	n, err := svc.SendUpcoming(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []sentNotification{
		{kind: "reminder", recipient: professor.ID, appointment: soon.ID},
		{kind: "reminder", recipient: student.ID, appointment: soon.ID},
		{kind: "reminder", recipient: professor.ID, appointment: atLead.ID},
		{kind: "reminder", recipient: student.ID, appointment: atLead.ID},
	}, notifier.sent)

	// same instant: nothing new to cover
	n, err = svc.SendUpcoming(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	clk.Advance(30 * time.Minute)
	notifier.sent = nil

	n, err = svc.SendUpcoming(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, notifier.sent, 2)
	assert.Equal(t, later.ID, notifier.sent[0].appointment)
}

func TestReminderService_NotifierFailureIsLogged(t *testing.T) {
	users := newMockUserStore()
	appointments := newMockAppointmentStore(users)
	slots := newMockSlotStore()
	notifier := &mockNotifier{err: errors.New("chat not found")}
	clk := clock.NewFixed(at(8, 0))

	professor := users.add("Ada", model.RoleProfessor)
	student := users.add("Ben", model.RoleStudent)
	slot := slots.add(professor.ID, iv(8, 0, 12, 0))
	appointments.add(slot, student.ID, iv(8, 30, 9, 0), model.AppointmentStatusConfirmed)

	svc := NewReminderService(appointments, users, notifier, clk, time.Hour, zap.NewNop())

	n, err := svc.SendUpcoming(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, notifier.sent, 2)
}

func TestReminderService_MissingParticipantIsSkipped(t *testing.T) {
	users := newMockUserStore()
	appointments := newMockAppointmentStore(users)
	notifier := &mockNotifier{}
	clk := clock.NewFixed(at(8, 0))

	professor := users.add("Ada", model.RoleProfessor)
	slot := &model.AvailabilitySlot{ID: uuid.New(), ProfessorID: professor.ID}
	appointments.add(slot, uuid.New(), iv(8, 30, 9, 0), model.AppointmentStatusConfirmed)

	svc := NewReminderService(appointments, users, notifier, clk, time.Hour, zap.NewNop())

	n, err := svc.SendUpcoming(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Empty(t, notifier.sent)
}

func TestReminderService_StoreFailureKeepsHorizon(t *testing.T) {
	users := newMockUserStore()
	appointments := newMockAppointmentStore(users)
	appointments.findErr = errStoreDown
	clk := clock.NewFixed(at(8, 0))

	svc := NewReminderService(appointments, users, &mockNotifier{}, clk, time.Hour, zap.NewNop())

	_, err := svc.SendUpcoming(context.Background())
	assert.ErrorIs(t, err, errStoreDown)
	assert.True(t, svc.horizon.IsZero())
}

func TestReminderService_RecipientFailureIsRetried(t *testing.T) {
	users := newMockUserStore()
	appointments := newMockAppointmentStore(users)
	slots := newMockSlotStore()
	notifier := &mockNotifier{}
	clk := clock.NewFixed(at(8, 0))

	professor := users.add("Ada", model.RoleProfessor)
	student := users.add("Ben", model.RoleStudent)
	slot := slots.add(professor.ID, iv(8, 0, 12, 0))
	soon := appointments.add(slot, student.ID, iv(8, 30, 8, 45), model.AppointmentStatusConfirmed)

	svc := NewReminderService(appointments, users, notifier, clk, time.Hour, zap.NewNop())
	ctx := context.Background()

	users.err = errStoreDown
	_, err := svc.SendUpcoming(ctx)
	require.ErrorIs(t, err, errStoreDown)
	assert.Empty(t, notifier.sent)

	users.err = nil
	clk.Advance(5 * time.Minute)

	n, err := svc.SendUpcoming(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.ElementsMatch(t, []sentNotification{
		{kind: "reminder", recipient: professor.ID, appointment: soon.ID},
		{kind: "reminder", recipient: student.ID, appointment: soon.ID},
	}, notifier.sent)
}
