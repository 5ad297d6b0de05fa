package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"courtbook/internal/model"
	"courtbook/internal/mq"

	"github.com/google/uuid"
)

// memCatalog — каталог кортов в памяти.
type memCatalog struct {
	mu     sync.Mutex
	courts map[int]model.Court
}

func newMemCatalog(courts ...model.Court) *memCatalog {
	c := &memCatalog{courts: make(map[int]model.Court)}
	for _, court := range courts {
		c.courts[court.ID] = court
	}
	return c
}

func (c *memCatalog) GetByID(_ context.Context, id int) (*model.Court, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	court, ok := c.courts[id]
	if !ok {
		return nil, model.ErrCourtNotFound
	}
	return &court, nil
}

func (c *memCatalog) setState(id int, state string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	court := c.courts[id]
	court.State = state
	c.courts[id] = court
}

// memDirectory — справочник пользователей в памяти.
type memDirectory struct {
	users map[int]model.User
}

func newMemDirectory(users ...model.User) *memDirectory {
	d := &memDirectory{users: make(map[int]model.User)}
	for _, user := range users {
		d.users[user.ID] = user
	}
	return d
}

func (d *memDirectory) GetByID(_ context.Context, id int) (*model.User, error) {
	user, ok := d.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &user, nil
}

// memStore — хранилище броней в памяти. Как и настоящее хранилище,
// выполняет проверку конфликта и вставку атомарно, под одним мьютексом.
type memStore struct {
	mu      sync.Mutex
	catalog *memCatalog
	byID    map[uuid.UUID]*model.Reservation
}

func newMemStore(catalog *memCatalog) *memStore {
	return &memStore{catalog: catalog, byID: make(map[uuid.UUID]*model.Reservation)}
}

func conflicts(existing *model.Reservation, candidate *model.Reservation) bool {
	if existing.StartTime == candidate.StartTime {
		return true
	}
	return existing.StartTime < candidate.EndTime && candidate.StartTime < existing.EndTime
}

func (s *memStore) FindActiveByCourtAndDate(_ context.Context, courtID int, date string) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Reservation{}
	for _, r := range s.byID {
		if r.CourtID == courtID && r.Date == date && r.Status != model.StatusCancelled {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (s *memStore) InsertIfFree(_ context.Context, res *model.Reservation) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog.mu.Lock()
	court, ok := s.catalog.courts[res.CourtID]
	s.catalog.mu.Unlock()
	if !ok {
		return nil, model.ErrCourtNotFound
	}
	if court.State != model.CourtAvailable {
		return nil, model.ErrCourtUnavailable
	}

	for _, existing := range s.byID {
		if existing.CourtID != res.CourtID || existing.Date != res.Date {
			continue
		}
		if existing.Status == model.StatusCancelled {
			continue
		}
		if conflicts(existing, res) {
			return nil, model.ErrTimeConflict
		}
	}

	stored := *res
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	s.byID[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, model.ErrReservationNotFound
	}
	copied := *r
	return &copied, nil
}

func (s *memStore) UpdateStatus(_ context.Context, id uuid.UUID, from, to model.ReservationStatus) (*model.Reservation, error) {
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

func (s *memStore) UpdateFields(_ context.Context, id uuid.UUID, patch model.UpdateReservation) (*model.Reservation, error) {
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

func (s *memStore) FindByFilters(_ context.Context, userID, courtID int, status model.ReservationStatus) ([]model.Reservation, error) {
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
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].StartTime > out[j].StartTime
	})
	return out, nil
}

// capturePublisher запоминает опубликованные события.
type capturePublisher struct {
	mu     sync.Mutex
	events []mq.Event
}

func (p *capturePublisher) Publish(_ context.Context, event mq.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) all() []mq.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]mq.Event{}, p.events...)
}
