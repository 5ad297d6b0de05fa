package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"courtbook/internal/model"
	"courtbook/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fakeCatalog и fakeStore — минимальные реализации зависимостей ядра
// для проверки маршрутов без базы данных.
type fakeCatalog struct{ court model.Court }

func (f *fakeCatalog) GetByID(_ context.Context, id int) (*model.Court, error) {
	if id != f.court.ID {
		return nil, model.ErrCourtNotFound
	}
	court := f.court
	return &court, nil
}

type fakeDirectory struct{ user model.User }

func (f *fakeDirectory) GetByID(_ context.Context, id int) (*model.User, error) {
	if id != f.user.ID {
		return nil, model.ErrUserNotFound
	}
	user := f.user
	return &user, nil
}

type fakeStore struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*model.Reservation
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: make(map[uuid.UUID]*model.Reservation)}
}

func (s *fakeStore) FindActiveByCourtAndDate(_ context.Context, courtID int, date string) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Reservation{}
	for _, r := range s.byID {
		if r.CourtID == courtID && r.Date == date && r.Status != model.StatusCancelled {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeStore) InsertIfFree(_ context.Context, res *model.Reservation) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.CourtID != res.CourtID || existing.Date != res.Date || existing.Status == model.StatusCancelled {
			continue
		}
		if existing.StartTime == res.StartTime ||
			(existing.StartTime < res.EndTime && res.StartTime < existing.EndTime) {
			return nil, model.ErrTimeConflict
		}
	}
	stored := *res
	stored.ID = uuid.New()
	s.byID[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (s *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, model.ErrReservationNotFound
	}
	copied := *r
	return &copied, nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id uuid.UUID, from, to model.ReservationStatus) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, model.ErrReservationNotFound
	}
	if r.Status != from {
		return nil, model.ErrInvalidTransition
	}
	r.Status = to
	copied := *r
	return &copied, nil
}

func (s *fakeStore) UpdateFields(_ context.Context, id uuid.UUID, patch model.UpdateReservation) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, model.ErrReservationNotFound
	}
	if patch.Notes != nil {
		notes := *patch.Notes
		r.Notes = &notes
	}
	copied := *r
	return &copied, nil
}

func (s *fakeStore) FindByFilters(_ context.Context, userID, courtID int, status model.ReservationStatus) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Reservation{}
	for _, r := range s.byID {
		if userID > 0 && r.UserID != userID {
			continue
		}
		if courtID > 0 && r.CourtID != courtID {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := newFakeStore()
	catalog := &fakeCatalog{court: model.Court{
		ID: 1, Name: "Корт 1", CourtTypeID: 1, Capacity: 4,
		HourlyRate: decimal.NewFromInt(20), State: model.CourtAvailable,
	}}
	directory := &fakeDirectory{user: model.User{
		ID: 1, Name: "Иван", Surname: "Петров",
		Email: "ivan@example.com", Phone: "-",
		Role: model.RoleClient, State: model.UserActive,
	}}
	availability := service.NewAvailabilityService(store)
	reservations := service.NewReservationService(store, catalog, directory, availability, nil)

	h := NewHandler(nil, nil, nil, reservations, availability)

	r := gin.New()
	api := r.Group("/api")
	{
		api.GET("/reservations", h.ListReservations)
		api.GET("/reservations/:id", h.GetReservation)
		api.POST("/reservations", h.CreateReservation)
		api.PUT("/reservations/:id/status", h.UpdateReservationStatus)
		api.DELETE("/reservations/:id", h.CancelReservation)
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const createBody = `{"user_id":1,"court_id":1,"date":"2026-09-01","start_time":"09:00","end_time":"11:00"}`

func TestCreateReservation_Created(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/reservations", createBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body)
	}
	var res model.Reservation
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if res.Status != model.StatusPending {
		t.Errorf("expected pending, got %s", res.Status)
	}
	if !res.TotalPrice.Equal(decimal.NewFromInt(40)) {
		t.Errorf("expected price 40, got %s", res.TotalPrice)
	}
}

func TestCreateReservation_Conflict(t *testing.T) {
	r := newTestRouter()

	if w := doJSON(t, r, http.MethodPost, "/api/reservations", createBody); w.Code != http.StatusCreated {
		t.Fatalf("seed: expected 201, got %d", w.Code)
	}
	w := doJSON(t, r, http.MethodPost, "/api/reservations",
		`{"user_id":1,"court_id":1,"date":"2026-09-01","start_time":"10:00","end_time":"12:00"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d: %s", w.Code, w.Body)
	}
}

func TestCreateReservation_Validation(t *testing.T) {
	r := newTestRouter()

	// Конец раньше начала.
	w := doJSON(t, r, http.MethodPost, "/api/reservations",
		`{"user_id":1,"court_id":1,"date":"2026-09-01","start_time":"11:00","end_time":"09:00"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", w.Code, w.Body)
	}

	// Не JSON.
	w = doJSON(t, r, http.MethodPost, "/api/reservations", "{")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", w.Code)
	}
}

func TestCreateReservation_UnknownUser(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/reservations",
		`{"user_id":99,"court_id":1,"date":"2026-09-01","start_time":"09:00","end_time":"11:00"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d: %s", w.Code, w.Body)
	}
}

func TestGetReservation_BadAndMissingID(t *testing.T) {
	r := newTestRouter()

	if w := doJSON(t, r, http.MethodGet, "/api/reservations/not-a-uuid", ""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad uuid, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/api/reservations/"+uuid.NewString(), ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", w.Code)
	}
}

func TestReservationStatusRoute(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/reservations", createBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("seed: expected 201, got %d", w.Code)
	}
	var res model.Reservation
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	id := res.ID.String()

	if w := doJSON(t, r, http.MethodPut, "/api/reservations/"+id+"/status", `{"status":"confirmed"}`); w.Code != http.StatusOK {
		t.Fatalf("confirm: expected 200, got %d: %s", w.Code, w.Body)
	}
	// confirmed → completed разрешен, из completed переходов нет.
	if w := doJSON(t, r, http.MethodPut, "/api/reservations/"+id+"/status", `{"status":"completed"}`); w.Code != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d: %s", w.Code, w.Body)
	}
	if w := doJSON(t, r, http.MethodDelete, "/api/reservations/"+id, ""); w.Code != http.StatusBadRequest {
		t.Errorf("cancel of completed: expected 400, got %d: %s", w.Code, w.Body)
	}
}

func TestCancelRoute_SecondCancelIsBadRequest(t *testing.T) {
	r := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/reservations", createBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("seed: expected 201, got %d", w.Code)
	}
	var res model.Reservation
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	id := res.ID.String()

	if w := doJSON(t, r, http.MethodDelete, "/api/reservations/"+id, ""); w.Code != http.StatusOK {
		t.Fatalf("cancel: expected 200, got %d: %s", w.Code, w.Body)
	}
	if w := doJSON(t, r, http.MethodDelete, "/api/reservations/"+id, ""); w.Code != http.StatusBadRequest {
		t.Errorf("second cancel: expected 400, got %d: %s", w.Code, w.Body)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{model.ErrValidation, http.StatusBadRequest},
		{model.ErrInvalidTimeRange, http.StatusBadRequest},
		{model.ErrCourtUnavailable, http.StatusBadRequest},
		{model.ErrInvalidTransition, http.StatusBadRequest},
		{model.ErrAlreadyCancelled, http.StatusBadRequest},
		{model.ErrUserNotFound, http.StatusNotFound},
		{model.ErrUserInactive, http.StatusUnprocessableEntity},
		{model.ErrCourtNotFound, http.StatusNotFound},
		{model.ErrCourtTypeNotFound, http.StatusNotFound},
		{model.ErrReservationNotFound, http.StatusNotFound},
		{model.ErrTimeConflict, http.StatusConflict},
		{model.ErrCourtHasReservations, http.StatusConflict},
		{model.ErrStore, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := errorStatus(tt.err); got != tt.want {
			t.Errorf("errorStatus(%v): expected %d, got %d", tt.err, tt.want, got)
		}
	}
}
