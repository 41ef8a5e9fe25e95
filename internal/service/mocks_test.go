package service

import (
	"context"
	"errors"
	"sync"

	"ticket-scanner-server/internal/domain"
	"ticket-scanner-server/internal/repository"

	"go.uber.org/zap"
)

var testLogger = zap.NewNop()

type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	u := *user
	m.users[user.ID] = &u
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			u := *user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if user, ok := m.users[id]; ok {
		u := *user
		return &u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(ctx, email)
	return err == nil, nil
}

type mockDeviceRepo struct {
	devices map[string]*domain.Device
	saves   int
	saveErr error
}

func newMockDeviceRepo() *mockDeviceRepo {
	return &mockDeviceRepo{
		devices: make(map[string]*domain.Device),
	}
}

func (m *mockDeviceRepo) FindByID(ctx context.Context, deviceID string) (*domain.Device, error) {
	if d, ok := m.devices[deviceID]; ok {
		c := *d
		return &c, nil
	}
	return nil, repository.ErrNotFound
}

func (m *mockDeviceRepo) FindByUniqueID(ctx context.Context, uniqueID string) (*domain.Device, error) {
	for _, d := range m.devices {
		if d.UniqueID == uniqueID {
			c := *d
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockDeviceRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Device, error) {
	var devices []*domain.Device
	for _, d := range m.devices {
		if d.OwnerID == ownerID {
			c := *d
			devices = append(devices, &c)
		}
	}
	return devices, nil
}

func (m *mockDeviceRepo) Save(ctx context.Context, device *domain.Device) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	c := *device
	m.devices[device.ID] = &c
	m.saves++
	return nil
}

type mockAttendeeRepo struct {
	attendees map[string]*domain.Attendee
	findErr   error
}

func newMockAttendeeRepo(attendees ...*domain.Attendee) *mockAttendeeRepo {
	m := &mockAttendeeRepo{attendees: make(map[string]*domain.Attendee)}
	for _, a := range attendees {
		m.attendees[a.ID] = a
	}
	return m
}

func (m *mockAttendeeRepo) FindByTicketCode(ctx context.Context, code string) (*domain.Attendee, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, a := range m.attendees {
		if a.TicketCode == code {
			c := *a
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockAttendeeRepo) Save(ctx context.Context, attendee *domain.Attendee) error {
	c := *attendee
	m.attendees[attendee.ID] = &c
	return nil
}

type mockCheckInLogRepo struct {
	entries []*domain.CheckInLog
	err     error
}

func (m *mockCheckInLogRepo) Create(ctx context.Context, entry *domain.CheckInLog) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

// countingActions wraps AttendeeService and counts calls.
type countingActions struct {
	inner     *AttendeeService
	checkIns  int
	checkOuts int
}

func (c *countingActions) CheckIn(ctx context.Context, attendee *domain.Attendee) error {
	c.checkIns++
	return c.inner.CheckIn(ctx, attendee)
}

func (c *countingActions) CheckOut(ctx context.Context, attendee *domain.Attendee) error {
	c.checkOuts++
	return c.inner.CheckOut(ctx, attendee)
}

type recordingPublisher struct {
	mu      sync.Mutex
	results []*domain.ValidationResult
	err     error
}

func (p *recordingPublisher) PublishScan(userID, deviceID string, result *domain.ValidationResult) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.results = append(p.results, result)
	return p.err
}

type stubValidator struct {
	check *CodeCheck
	err   error
}

func (s *stubValidator) Validate(ctx context.Context, code, eventID string) (*CodeCheck, error) {
	if s.err != nil {
		return nil, s.err
	}
	c := *s.check
	return &c, nil
}

var errStore = errors.New("store unavailable")
