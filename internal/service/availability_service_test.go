package service

import (
	"context"
	"testing"

	"courtbook/internal/model"

	"github.com/shopspring/decimal"
)

func testCourt(id int, state string) model.Court {
	return model.Court{
		ID:          id,
		Name:        "Корт 1",
		CourtTypeID: 1,
		Capacity:    4,
		HourlyRate:  decimal.NewFromInt(20),
		State:       state,
	}
}

func seedReservation(t *testing.T, store *memStore, courtID int, date, start, end string, status model.ReservationStatus) *model.Reservation {
	t.Helper()
	res, err := store.InsertIfFree(context.Background(), &model.Reservation{
		UserID:    1,
		CourtID:   courtID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Status:    status,
	})
	if err != nil {
		t.Fatalf("seed reservation %s-%s: %v", start, end, err)
	}
	return res
}

func TestOccupiedIntervals_SortedAndFiltered(t *testing.T) {
	store := newMemStore(newMemCatalog(testCourt(1, model.CourtAvailable)))
	svc := NewAvailabilityService(store)
	ctx := context.Background()

	seedReservation(t, store, 1, "2026-09-01", "14:00", "15:00", model.StatusConfirmed)
	seedReservation(t, store, 1, "2026-09-01", "09:00", "10:00", model.StatusPending)
	cancelled := seedReservation(t, store, 1, "2026-09-01", "11:00", "12:00", model.StatusPending)
	if _, err := store.UpdateStatus(ctx, cancelled.ID, model.StatusPending, model.StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	slots, err := svc.OccupiedIntervals(ctx, 1, "2026-09-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []model.TimeSlot{
		{StartTime: "09:00", EndTime: "10:00"},
		{StartTime: "14:00", EndTime: "15:00"},
	}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(slots))
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Errorf("slot %d: expected %v, got %v", i, want[i], slots[i])
		}
	}
}

func TestOccupiedIntervals_EmptyIsNotError(t *testing.T) {
	store := newMemStore(newMemCatalog(testCourt(1, model.CourtAvailable)))
	svc := NewAvailabilityService(store)

	slots, err := svc.OccupiedIntervals(context.Background(), 1, "2026-09-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("expected no slots, got %v", slots)
	}
}

func TestIsFree(t *testing.T) {
	store := newMemStore(newMemCatalog(testCourt(1, model.CourtAvailable)))
	svc := NewAvailabilityService(store)
	ctx := context.Background()

	seedReservation(t, store, 1, "2026-09-01", "09:00", "10:00", model.StatusConfirmed)

	tests := []struct {
		name       string
		start, end string
		free       bool
	}{
		{"то же начало, другая длительность", "09:00", "09:30", false},
		{"пересечение внутри", "09:30", "10:30", false},
		{"кандидат накрывает бронь", "08:30", "10:30", false},
		{"встык после", "10:00", "11:00", true},
		{"встык до", "08:00", "09:00", true},
		{"полностью свободно", "12:00", "13:00", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			free, err := svc.IsFree(ctx, 1, "2026-09-01", tt.start, tt.end)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if free != tt.free {
				t.Errorf("IsFree(%s, %s): expected %v, got %v", tt.start, tt.end, tt.free, free)
			}
		})
	}
}

func TestIsFree_InvalidRange(t *testing.T) {
	store := newMemStore(newMemCatalog(testCourt(1, model.CourtAvailable)))
	svc := NewAvailabilityService(store)

	if _, err := svc.IsFree(context.Background(), 1, "2026-09-01", "10:00", "10:00"); err != model.ErrInvalidTimeRange {
		t.Errorf("expected ErrInvalidTimeRange, got %v", err)
	}
	if _, err := svc.IsFree(context.Background(), 1, "2026-09-01", "25:00", "26:00"); err == nil {
		t.Error("expected error for malformed time")
	}
}

func TestIsFree_CancelledDoesNotBlock(t *testing.T) {
	store := newMemStore(newMemCatalog(testCourt(1, model.CourtAvailable)))
	svc := NewAvailabilityService(store)
	ctx := context.Background()

	res := seedReservation(t, store, 1, "2026-09-01", "09:00", "10:00", model.StatusPending)
	if _, err := store.UpdateStatus(ctx, res.ID, model.StatusPending, model.StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	free, err := svc.IsFree(ctx, 1, "2026-09-01", "09:00", "10:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !free {
		t.Error("cancelled reservation must not occupy the slot")
	}
}

func TestFreeSlots(t *testing.T) {
	store := newMemStore(newMemCatalog(testCourt(1, model.CourtAvailable)))
	svc := NewAvailabilityService(store)
	ctx := context.Background()

	seedReservation(t, store, 1, "2026-09-01", "09:00", "10:30", model.StatusConfirmed)
	seedReservation(t, store, 1, "2026-09-01", "10:30", "11:00", model.StatusPending)
	seedReservation(t, store, 1, "2026-09-01", "20:00", "22:00", model.StatusConfirmed)

	free, err := svc.FreeSlots(ctx, 1, "2026-09-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []model.TimeSlot{
		{StartTime: "08:00", EndTime: "09:00"},
		{StartTime: "11:00", EndTime: "20:00"},
	}
	if len(free) != len(want) {
		t.Fatalf("expected %d gaps, got %d: %v", len(want), len(free), free)
	}
	for i := range want {
		if free[i] != want[i] {
			t.Errorf("gap %d: expected %v, got %v", i, want[i], free[i])
		}
	}
}

func TestFreeSlots_EmptyDayIsWholeWindow(t *testing.T) {
	store := newMemStore(newMemCatalog(testCourt(1, model.CourtAvailable)))
	svc := NewAvailabilityService(store)

	free, err := svc.FreeSlots(context.Background(), 1, "2026-09-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(free) != 1 || free[0].StartTime != "08:00" || free[0].EndTime != "22:00" {
		t.Errorf("expected single gap 08:00-22:00, got %v", free)
	}
}
