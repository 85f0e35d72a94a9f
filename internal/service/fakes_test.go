package service

import (
	"context"
	"strings"
	"sync"

	"carrental/internal/db"
	"carrental/internal/repository"
)

type fakeVehicleStore struct {
	mu       sync.Mutex
	vehicles map[int64]db.Vehicle
	nextID   int64
	gets     int
}

func newFakeVehicleStore(vs ...db.Vehicle) *fakeVehicleStore {
	s := &fakeVehicleStore{vehicles: map[int64]db.Vehicle{}}
	for _, v := range vs {
		if v.ID > s.nextID {
			s.nextID = v.ID
		}
		s.vehicles[v.ID] = v
	}
	return s
}

func (s *fakeVehicleStore) List(ctx context.Context) ([]db.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []db.Vehicle
	for _, v := range s.vehicles {
		out = append(out, v)
	}
	return out, nil
}

func (s *fakeVehicleStore) GetByID(ctx context.Context, id int64) (*db.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	v, ok := s.vehicles[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (s *fakeVehicleStore) ListAvailable(ctx context.Context, location string, start, end db.Date, statuses []db.ReservationStatus) ([]db.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []db.Vehicle
	for _, v := range s.vehicles {
		if v.IsAvailable && strings.EqualFold(v.Location, location) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *fakeVehicleStore) Create(ctx context.Context, v *db.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.vehicles {
		if existing.PlateNumber == v.PlateNumber {
			return repository.ErrDuplicate
		}
	}
	s.nextID++
	v.ID = s.nextID
	s.vehicles[v.ID] = *v
	return nil
}

func (s *fakeVehicleStore) Update(ctx context.Context, v *db.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.vehicles {
		if existing.ID != v.ID && existing.PlateNumber == v.PlateNumber {
			return repository.ErrDuplicate
		}
	}
	s.vehicles[v.ID] = *v
	return nil
}

func (s *fakeVehicleStore) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.vehicles[id]
	delete(s.vehicles, id)
	return ok, nil
}

type fakeUserStore struct {
	mu     sync.Mutex
	users  map[int64]db.User
	nextID int64
}

func newFakeUserStore(us ...db.User) *fakeUserStore {
	s := &fakeUserStore{users: map[int64]db.User{}}
	for _, u := range us {
		if u.ID > s.nextID {
			s.nextID = u.ID
		}
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(ctx context.Context, u *db.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	s.nextID++
	u.ID = s.nextID
	s.users[u.ID] = *u
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id int64) (*db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *fakeUserStore) GetByUsername(ctx context.Context, username string) (*db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) List(ctx context.Context) ([]db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []db.User
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *fakeUserStore) Delete(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[id]
	delete(s.users, id)
	return ok, nil
}

type mapVehicleCache struct {
	mu          sync.Mutex
	entries     map[int64]db.Vehicle
	invalidated []int64
}

func newMapVehicleCache() *mapVehicleCache {
	return &mapVehicleCache{entries: map[int64]db.Vehicle{}}
}

func (c *mapVehicleCache) Get(ctx context.Context, id int64) (*db.Vehicle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	return &v, true
}

func (c *mapVehicleCache) Set(ctx context.Context, v db.Vehicle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[v.ID] = v
}

func (c *mapVehicleCache) Invalidate(ctx context.Context, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	c.invalidated = append(c.invalidated, id)
}
