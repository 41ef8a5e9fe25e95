package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestDeviceService(repo *mockDeviceRepo, clock *time.Time) *DeviceService {
	s := NewDeviceService(repo, testLogger)
	s.now = func() time.Time { return *clock }
	return s
}

func TestDeviceService_FindOrMake(t *testing.T) {
	ctx := context.Background()
	repo := newMockDeviceRepo()
	clock := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s := newTestDeviceService(repo, &clock)

	first, err := s.FindOrMake(ctx, "dev-1", "Acme", "Scanner 3000")
	if err != nil {
		t.Fatalf("FindOrMake() error = %v", err)
	}
	if first.ID == "" {
		t.Fatal("FindOrMake() returned a device without an id")
	}
	if !first.CreatedAt.Equal(clock) || !first.LastLogin.Equal(clock) {
		t.Errorf("timestamps = %v/%v, want %v", first.CreatedAt, first.LastLogin, clock)
	}

	clock = clock.Add(time.Hour)

	second, err := s.FindOrMake(ctx, "dev-1", "Other", "Model")
	if err != nil {
		t.Fatalf("FindOrMake() error = %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("second call id = %q, want %q", second.ID, first.ID)
	}
	if second.Brand != "Acme" || second.Model != "Scanner 3000" {
		t.Errorf("brand/model overwritten: %q/%q", second.Brand, second.Model)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed: %v", second.CreatedAt)
	}
	if !second.LastLogin.Equal(clock) {
		t.Errorf("LastLogin = %v, want %v", second.LastLogin, clock)
	}
	if len(repo.devices) != 1 {
		t.Errorf("stored devices = %d, want 1", len(repo.devices))
	}
}

func TestDeviceService_FindOrMakeSaveError(t *testing.T) {
	repo := newMockDeviceRepo()
	repo.saveErr = errStore
	clock := time.Now()
	s := newTestDeviceService(repo, &clock)

	if _, err := s.FindOrMake(context.Background(), "dev-1", "-", "-"); !errors.Is(err, errStore) {
		t.Errorf("FindOrMake() error = %v, want %v", err, errStore)
	}
}

func TestDeviceService_List(t *testing.T) {
	ctx := context.Background()
	repo := newMockDeviceRepo()
	clock := time.Now()
	s := newTestDeviceService(repo, &clock)

	for _, uid := range []string{"dev-1", "dev-2"} {
		d, err := s.FindOrMake(ctx, uid, "Acme", "S1")
		if err != nil {
			t.Fatalf("FindOrMake() error = %v", err)
		}
		d.OwnerID = "user-1"
		d.Token = "digest"
		s.Save(ctx, d)
	}
	other, _ := s.FindOrMake(ctx, "dev-3", "-", "-")
	other.OwnerID = "user-2"
	s.Save(ctx, other)

	devices, err := s.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("List() returned %d devices, want 2", len(devices))
	}
	for _, d := range devices {
		if d.Title != "Acme, S1" {
			t.Errorf("Title = %q, want \"Acme, S1\"", d.Title)
		}
		if !d.HasToken {
			t.Error("HasToken = false, want true")
		}
	}

	empty, err := s.List(ctx, "user-3")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("List() for user without devices = %v, want empty slice", empty)
	}
}

func TestDeviceService_InvalidateToken(t *testing.T) {
	ctx := context.Background()
	repo := newMockDeviceRepo()
	clock := time.Now()
	s := newTestDeviceService(repo, &clock)

	d, _ := s.FindOrMake(ctx, "dev-1", "-", "-")
	d.OwnerID = "user-1"
	d.Token = "digest"
	s.Save(ctx, d)

	tests := []struct {
		name     string
		userID   string
		deviceID string
		wantErr  error
	}{
		{name: "other user", userID: "user-2", deviceID: d.ID, wantErr: ErrForbidden},
		{name: "missing device", userID: "user-1", deviceID: "missing", wantErr: ErrNotFound},
		{name: "owner", userID: "user-1", deviceID: d.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.InvalidateToken(ctx, tt.userID, tt.deviceID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("InvalidateToken() error = %v, want %v", err, tt.wantErr)
			}

			stored, _ := repo.FindByID(ctx, d.ID)
			if tt.wantErr != nil && stored.Token == "" {
				t.Error("token cleared by a rejected call")
			}
			if tt.wantErr == nil && stored.Token != "" {
				t.Errorf("Token = %q, want cleared", stored.Token)
			}
		})
	}
}
