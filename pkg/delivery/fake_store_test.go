// pkg/delivery/fake_store_test.go
package delivery

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/wittycoder91/DeliveryBackend/models"
)

// fakeStore is an in-memory Store for exercising the state machine
// without Postgres. Transact runs the callback against the same maps;
// the invariant checks in the tests observe state between operations.
type fakeStore struct {
	mu         sync.Mutex
	deliveries map[uuid.UUID]*models.Delivery
	logs       []*models.DeliveryLog
	suppliers  map[uuid.UUID]*models.User
	settings   *models.Setting
	counters   map[int]*models.POCounter

	// counterConflicts makes the next N SaveCounter calls fail with
	// ErrSequencingConflict, simulating a lost insert race.
	counterConflicts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		deliveries: make(map[uuid.UUID]*models.Delivery),
		suppliers:  make(map[uuid.UUID]*models.User),
		counters:   make(map[int]*models.POCounter),
		settings: &models.Setting{
			LoyaltyBronze: 200,
			LoyaltySilver: 500,
			LoyaltyGolden: 1000,
		},
	}
}

func (f *fakeStore) addSupplier(trust int, price float64) uuid.UUID {
	id := uuid.New()
	f.suppliers[id] = &models.User{
		ID:    id,
		Name:  "Supplier " + id.String()[:8],
		Email: id.String()[:8] + "@example.com",
		Trust: trust,
		Price: price,
	}
	return id
}

func (f *fakeStore) Transact(ctx context.Context, fn func(tx Store) error) error {
	return fn(f)
}

func (f *fakeStore) FindDelivery(ctx context.Context, id uuid.UUID) (*models.Delivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.deliveries[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeStore) CreateDelivery(ctx context.Context, d *models.Delivery) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	cp := *d
	f.deliveries[d.ID] = &cp
	return nil
}

func (f *fakeStore) SaveDelivery(ctx context.Context, d *models.Delivery) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.deliveries[d.ID]; !ok {
		return ErrNotFound
	}
	cp := *d
	f.deliveries[d.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteDelivery(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.deliveries[id]; !ok {
		return ErrNotFound
	}
	delete(f.deliveries, id)
	return nil
}

func (f *fakeStore) UnreadDeliveries(ctx context.Context) ([]models.Delivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Delivery
	for _, d := range f.deliveries {
		if !d.Read {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkDeliveriesRead(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, d := range f.deliveries {
		if !d.Read {
			d.Read = true
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) MaxActivePO(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	maxPO := 0
	for _, d := range f.deliveries {
		if d.PO > maxPO {
			maxPO = d.PO
		}
	}
	return maxPO, nil
}

func (f *fakeStore) InsertLog(ctx context.Context, l *models.DeliveryLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	cp := *l
	f.logs = append(f.logs, &cp)
	return nil
}

func (f *fakeStore) MaxArchivedPO(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	maxPO := 0
	for _, l := range f.logs {
		if l.PO > maxPO {
			maxPO = l.PO
		}
	}
	return maxPO, nil
}

func (f *fakeStore) FindSupplier(ctx context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.suppliers[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) UpdateSupplierTotals(ctx context.Context, id uuid.UUID, totalWeight float64, loyalty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.suppliers[id]
	if !ok {
		return ErrNotFound
	}
	u.TotalWeight = totalWeight
	u.Loyalty = loyalty
	return nil
}

func (f *fakeStore) Settings(ctx context.Context) (*models.Setting, error) {
	if f.settings == nil {
		return nil, ErrNotFound
	}
	cp := *f.settings
	return &cp, nil
}

func (f *fakeStore) LockCounter(ctx context.Context, band int) (*models.POCounter, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.counters[band]
	if !ok {
		return nil, false, nil
	}
	cp := *c
	return &cp, true, nil
}

func (f *fakeStore) SaveCounter(ctx context.Context, c *models.POCounter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counterConflicts > 0 {
		f.counterConflicts--
		return ErrSequencingConflict
	}
	cp := *c
	f.counters[c.YearBand] = &cp
	return nil
}

func (f *fakeStore) ResolveNames(ctx context.Context, userID, materialID, packagingID uuid.UUID) (string, string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var userName string
	if u, ok := f.suppliers[userID]; ok {
		userName = u.Name
	}
	return userName, "Cardboard", "Baled", nil
}

// recordingBroadcaster captures events; fail makes every call error.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (b *recordingBroadcaster) Broadcast(ctx context.Context, ev Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return context.DeadlineExceeded
	}
	b.events = append(b.events, ev)
	return nil
}

// recordingMailer captures sent mail.
type recordingMailer struct {
	mu   sync.Mutex
	sent []string // "to|subject"
	fail bool
}

func (m *recordingMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return context.DeadlineExceeded
	}
	m.sent = append(m.sent, to+"|"+subject)
	return nil
}
