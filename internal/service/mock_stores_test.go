package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/office_hours/internal/model"
	"github.com/Freeeeeet/office_hours/internal/repository"
	"github.com/google/uuid"
)

var errStoreDown = errors.New("store unavailable")

// ── Mock UserStore ──

type mockUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
	err   error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[uuid.UUID]*model.User)}
}

func (m *mockUserStore) add(name string, role model.Role) *model.User {
	user := &model.User{
		ID:    uuid.New(),
		Email: name + "@example.edu",
		Name:  name,
		Role:  role,
	}
	m.mu.Lock()
	m.users[user.ID] = user
	m.mu.Unlock()
	return user
}

func (m *mockUserStore) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()
	m.users[user.ID] = user
	return nil
}

func (m *mockUserStore) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.users[id], nil
}

func (m *mockUserStore) GetByIDAndRole(_ context.Context, id uuid.UUID, role model.Role) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.users[id]; ok && u.Role == role {
		return u, nil
	}
	return nil, nil
}

func (m *mockUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserStore) GetByTelegramChatID(_ context.Context, chatID int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.TelegramChatID != nil && *u.TelegramChatID == chatID {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserStore) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var result []*model.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			result = append(result, u)
		}
	}
	return result, nil
}

func (m *mockUserStore) ListByRole(_ context.Context, role model.Role) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	result := []*model.User{}
	for _, u := range m.users {
		if u.Role == role {
			result = append(result, u)
		}
	}
	slices.SortFunc(result, func(a, b *model.User) int { return strings.Compare(a.Name, b.Name) })
	return result, nil
}

// ── Mock SlotStore ──

type mockSlotStore struct {
	mu    sync.Mutex
	slots []*model.AvailabilitySlot

	// afterFind runs outside the store lock once Find has read its result.
	afterFind   func()
	createCalls int
}

func newMockSlotStore() *mockSlotStore {
	return &mockSlotStore{}
}

func (m *mockSlotStore) add(professorID uuid.UUID, interval model.Interval) *model.AvailabilitySlot {
	slot := &model.AvailabilitySlot{
		ID:          uuid.New(),
		ProfessorID: professorID,
		StartTime:   interval.Start,
		EndTime:     interval.End,
	}
	m.mu.Lock()
	m.slots = append(m.slots, slot)
	m.mu.Unlock()
	return slot
}

func (m *mockSlotStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}

func (m *mockSlotStore) Create(_ context.Context, slot *model.AvailabilitySlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	slot.ID = uuid.New()
	slot.CreatedAt = time.Now().UTC()
	m.slots = append(m.slots, slot)
	return nil
}

func (m *mockSlotStore) GetByID(_ context.Context, id uuid.UUID) (*model.AvailabilitySlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.slots {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockSlotStore) GetByIDAndProfessor(_ context.Context, id, professorID uuid.UUID) (*model.AvailabilitySlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.slots {
		if s.ID == id && s.ProfessorID == professorID {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockSlotStore) Find(_ context.Context, filter repository.SlotFilter) ([]*model.AvailabilitySlot, error) {
	m.mu.Lock()
	result := []*model.AvailabilitySlot{}
	for _, s := range m.slots {
		if filter.ProfessorID != nil && s.ProfessorID != *filter.ProfessorID {
			continue
		}
		if filter.Overlapping != nil && !s.Interval().Overlaps(*filter.Overlapping) {
			continue
		}
		if filter.EndAfter != nil && !s.EndTime.After(*filter.EndAfter) {
			continue
		}
		result = append(result, s)
	}
	m.mu.Unlock()

	slices.SortStableFunc(result, func(a, b *model.AvailabilitySlot) int {
		return a.StartTime.Compare(b.StartTime)
	})

	if m.afterFind != nil {
		m.afterFind()
	}
	return result, nil
}

// ── Mock AppointmentStore ──

type mockAppointmentStore struct {
	mu           sync.Mutex
	appointments []*model.Appointment
	users        *mockUserStore

	findErr           error
	afterGetByID      func() // runs outside the lock
	findCalls         int
	createCalls       int
	updateStatusCalls int
}

func newMockAppointmentStore(users *mockUserStore) *mockAppointmentStore {
	return &mockAppointmentStore{users: users}
}

func (m *mockAppointmentStore) add(slot *model.AvailabilitySlot, studentID uuid.UUID, interval model.Interval, status model.AppointmentStatus) *model.Appointment {
	appointment := &model.Appointment{
		ID:             uuid.New(),
		AvailabilityID: slot.ID,
		StudentID:      studentID,
		ProfessorID:    slot.ProfessorID,
		StartTime:      interval.Start,
		EndTime:        interval.End,
		Status:         status,
	}
	m.mu.Lock()
	m.appointments = append(m.appointments, appointment)
	m.mu.Unlock()
	return appointment
}

func (m *mockAppointmentStore) Create(_ context.Context, appointment *model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now().UTC()
	appointment.UpdatedAt = appointment.CreatedAt
	m.appointments = append(m.appointments, appointment)
	return nil
}

func (m *mockAppointmentStore) GetByID(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	m.mu.Lock()
	var found *model.Appointment
	for _, a := range m.appointments {
		if a.ID == id {
			clone := *a
			found = &clone
			break
		}
	}
	hook := m.afterGetByID
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	return found, nil
}

func (m *mockAppointmentStore) remove(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appointments = slices.DeleteFunc(m.appointments, func(a *model.Appointment) bool {
		return a.ID == id
	})
}

func (m *mockAppointmentStore) Find(ctx context.Context, filter repository.AppointmentFilter) ([]*model.Appointment, error) {
	m.mu.Lock()
	m.findCalls++
	if m.findErr != nil {
		m.mu.Unlock()
		return nil, m.findErr
	}

	result := []*model.Appointment{}
	for _, a := range m.appointments {
		if filter.AvailabilityID != nil && a.AvailabilityID != *filter.AvailabilityID {
			continue
		}
		if len(filter.AvailabilityIDs) > 0 && !slices.Contains(filter.AvailabilityIDs, a.AvailabilityID) {
			continue
		}
		if filter.StudentID != nil && a.StudentID != *filter.StudentID {
			continue
		}
		if filter.ProfessorID != nil && a.ProfessorID != *filter.ProfessorID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.Overlapping != nil && !a.Interval().Overlaps(*filter.Overlapping) {
			continue
		}
		if filter.EndAfter != nil && !a.EndTime.After(*filter.EndAfter) {
			continue
		}
		if filter.StartFrom != nil && a.StartTime.Before(*filter.StartFrom) {
			continue
		}
		if filter.StartBefore != nil && !a.StartTime.Before(*filter.StartBefore) {
			continue
		}
		clone := *a
		result = append(result, &clone)
	}
	m.mu.Unlock()

	slices.SortStableFunc(result, func(a, b *model.Appointment) int {
		return a.StartTime.Compare(b.StartTime)
	})

	if m.users != nil {
		for _, a := range result {
			if p, _ := m.users.GetByID(ctx, a.ProfessorID); p != nil {
				a.Professor = &model.User{ID: p.ID, Name: p.Name, Role: p.Role}
			}
		}
	}
	return result, nil
}

func (m *mockAppointmentStore) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateStatusCalls++
	for _, a := range m.appointments {
		if a.ID == id {
			a.Status = status
			a.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return repository.ErrNotFound
}

// ── Mock RecurringStore ──

type mockRecurringStore struct {
	mu        sync.Mutex
	templates []*model.RecurringAvailability
}

func (m *mockRecurringStore) Create(_ context.Context, template *model.RecurringAvailability) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	template.ID = uuid.New()
	m.templates = append(m.templates, template)
	return nil
}

func (m *mockRecurringStore) GetByProfessorID(_ context.Context, professorID uuid.UUID) ([]*model.RecurringAvailability, error) {
	return m.filter(func(t *model.RecurringAvailability) bool { return t.ProfessorID == professorID }), nil
}

func (m *mockRecurringStore) GetByGroupID(_ context.Context, groupID uuid.UUID) ([]*model.RecurringAvailability, error) {
	return m.filter(func(t *model.RecurringAvailability) bool { return t.GroupID == groupID }), nil
}

func (m *mockRecurringStore) GetAllActive(_ context.Context) ([]*model.RecurringAvailability, error) {
	return m.filter(func(t *model.RecurringAvailability) bool { return t.IsActive }), nil
}

func (m *mockRecurringStore) DeactivateByGroupID(_ context.Context, groupID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.templates {
		if t.GroupID == groupID {
			t.IsActive = false
		}
	}
	return nil
}

func (m *mockRecurringStore) filter(keep func(*model.RecurringAvailability) bool) []*model.RecurringAvailability {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*model.RecurringAvailability{}
	for _, t := range m.templates {
		if keep(t) {
			result = append(result, t)
		}
	}
	return result
}

// ── Mock Notifier ──

type sentNotification struct {
	kind        string
	recipient   uuid.UUID
	appointment uuid.UUID
}

type mockNotifier struct {
	mu     sync.Mutex
	sent   []sentNotification
	err    error
	onSend func() // runs before recording, outside the lock
}

func (m *mockNotifier) record(kind string, recipient *model.User, appointment *model.Appointment) error {
	if m.onSend != nil {
		m.onSend()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentNotification{kind: kind, recipient: recipient.ID, appointment: appointment.ID})
	return m.err
}

func (m *mockNotifier) AppointmentRequested(_ context.Context, professor, _ *model.User, appointment *model.Appointment) error {
	return m.record("requested", professor, appointment)
}

func (m *mockNotifier) AppointmentStatusChanged(_ context.Context, student, _ *model.User, appointment *model.Appointment) error {
	return m.record("status", student, appointment)
}

func (m *mockNotifier) AppointmentReminder(_ context.Context, recipient, _ *model.User, appointment *model.Appointment) error {
	return m.record("reminder", recipient, appointment)
}

func (m *mockNotifier) kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	kinds := make([]string, 0, len(m.sent))
	for _, s := range m.sent {
		kinds = append(kinds, s.kind)
	}
	return kinds
}
