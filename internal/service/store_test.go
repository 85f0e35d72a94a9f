package service

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"carrental/internal/db"
	"carrental/internal/repository"
)

// memStore is an in-memory ReservationStore. Transactions hold a store-wide
// lock and roll back by restoring a snapshot. Writes enforce the same
// no-overlap rule as the Postgres exclusion constraint.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	reservations map[int64]db.Reservation
	vehicles     map[int64]bool
	users        map[int64]bool
	nextID       int64

	calls int64

	// skipOverlapCheck makes HasOverlap always report false, so only the
	// write-time constraint can catch a conflict.
	skipOverlapCheck bool
}

func newMemStore() *memStore {
	return &memStore{
		reservations: map[int64]db.Reservation{},
		vehicles:     map[int64]bool{},
		users:        map[int64]bool{},
	}
}

func (m *memStore) addVehicle(id int64) { m.vehicles[id] = true }
func (m *memStore) addUser(id int64) { m.users[id] = true }

// seed inserts a reservation directly, bypassing every rule.
func (m *memStore) seed(r db.Reservation) db.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r.ID = m.nextID
	m.reservations[r.ID] = r
	return r
}

func (m *memStore) callCount() int64 { return atomic.LoadInt64(&m.calls) }

func (m *memStore) touch() { atomic.AddInt64(&m.calls, 1) }

func (m *memStore) all() []db.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]db.Reservation, 0, len(m.reservations))
	for _, r := range m.reservations {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) InTx(ctx context.Context, fn func(tx repository.ReservationStore) error) error {
	m.touch()
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snapshot := make(map[int64]db.Reservation, len(m.reservations))
	for k, v := range m.reservations {
		snapshot[k] = v
	}
	m.mu.Unlock()

	if err := fn(&memTx{m}); err != nil {
		m.mu.Lock()
		m.reservations = snapshot
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) List(ctx context.Context) ([]db.Reservation, error) {
	m.touch()
	return m.all(), nil
}

func (m *memStore) Search(ctx context.Context, f db.ReservationFilter) ([]db.Reservation, error) {
	m.touch()
	var out []db.Reservation
	for _, r := range m.all() {
		if f.UserID != 0 && r.UserID != f.UserID {
			continue
		}
		if f.VehicleID != 0 && r.VehicleID != f.VehicleID {
			continue
		}
		if f.StartFrom != nil && r.StartDate.Before(*f.StartFrom) {
			continue
		}
		if f.EndUntil != nil && r.EndDate.After(*f.EndUntil) {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *memStore) GetByID(ctx context.Context, id int64) (*db.Reservation, error) {
	m.touch()
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memStore) GetForUpdate(ctx context.Context, id int64) (*db.Reservation, error) {
	return m.GetByID(ctx, id)
}

func (m *memStore) HasOverlap(ctx context.Context, q db.OverlapQuery) (bool, error) {
	m.touch()
	if m.skipOverlapCheck {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reservations {
		if r.VehicleID != q.VehicleID || !statusIn(r.Status, q.Statuses) {
			continue
		}
		if q.ExcludeID != nil && r.ID == *q.ExcludeID {
			continue
		}
		if r.Overlaps(q.Start, q.End) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) LockVehicle(ctx context.Context, vehicleID int64) (bool, error) {
	m.touch()
	return m.vehicles[vehicleID], nil
}

func (m *memStore) UserExists(ctx context.Context, userID int64) (bool, error) {
	m.touch()
	return m.users[userID], nil
}

func (m *memStore) Create(ctx context.Context, r *db.Reservation) error {
	m.touch()
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.vehicles[r.VehicleID] || !m.users[r.UserID] {
		return repository.ErrMissingReference
	}
	if m.violatesConstraint(*r) {
		return repository.ErrOverlap
	}
	m.nextID++
	r.ID = m.nextID
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	m.reservations[r.ID] = *r
	return nil
}

func (m *memStore) Update(ctx context.Context, r *db.Reservation) error {
	m.touch()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.violatesConstraint(*r) {
		return repository.ErrOverlap
	}
	r.UpdatedAt = time.Now()
	m.reservations[r.ID] = *r
	return nil
}

func (m *memStore) UpdateStatus(ctx context.Context, id int64, status db.ReservationStatus) error {
	m.touch()
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.reservations[id]
	r.Status = status
	if m.violatesConstraint(r) {
		return repository.ErrOverlap
	}
	m.reservations[id] = r
	return nil
}

func (m *memStore) Delete(ctx context.Context, id int64) (*db.Reservation, error) {
	m.touch()
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, nil
	}
	delete(m.reservations, id)
	return &r, nil
}

// violatesConstraint must be called with mu held.
func (m *memStore) violatesConstraint(r db.Reservation) bool {
	if !r.Status.IsActive() {
		return false
	}
	for _, other := range m.reservations {
		if other.ID == r.ID || other.VehicleID != r.VehicleID || !other.Status.IsActive() {
			continue
		}
		if other.Overlaps(r.StartDate, r.EndDate) {
			return true
		}
	}
	return false
}

func statusIn(s db.ReservationStatus, set []db.ReservationStatus) bool {
	for _, x := range set {
		if s == x {
			return true
		}
	}
	return false
}

// memTx is the transaction-bound view; nested InTx calls reuse it.
type memTx struct {
	*memStore
}

func (t *memTx) InTx(ctx context.Context, fn func(tx repository.ReservationStore) error) error {
	return fn(t)
}

// recordingNotifier remembers every change it was told about.
type recordingNotifier struct {
	mu      sync.Mutex
	changes []db.Reservation
}

func (n *recordingNotifier) ReservationChanged(ctx context.Context, res db.Reservation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, res)
}

func (n *recordingNotifier) statuses() []db.ReservationStatus {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]db.ReservationStatus, len(n.changes))
	for i, c := range n.changes {
		out[i] = c.Status
	}
	return out
}
