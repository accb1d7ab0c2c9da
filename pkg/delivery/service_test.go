// pkg/delivery/service_test.go
package delivery

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wittycoder91/DeliveryBackend/models"
)

func fixed2025() func() time.Time {
	return func() time.Time {
		return time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)
	}
}

func newTestService(store *fakeStore) (*Service, *recordingBroadcaster, *recordingMailer) {
	b := &recordingBroadcaster{}
	m := &recordingMailer{}
	svc := NewService(store, NewSequencerAt(fixed2025()), b, m, nil)
	return svc, b, m
}

func createInput(userID uuid.UUID) CreateInput {
	return CreateInput{
		UserID:       userID,
		MaterialID:   uuid.New(),
		PackagingID:  uuid.New(),
		Weight:       250.5,
		CountPackage: 4,
		Date:         "2025-07-01",
		Time:         2,
	}
}

func TestCreateUntrustedStartsWaiting(t *testing.T) {
	store := newFakeStore()
	svc, b, _ := newTestService(store)
	supplier := store.addSupplier(0, 0)

	d, err := svc.Create(context.Background(), createInput(supplier))
	require.NoError(t, err)

	assert.Equal(t, models.StatusWaiting, d.Status)
	assert.Equal(t, 0, d.PO)
	assert.Equal(t, 0.0, d.Price)
	assert.False(t, d.Read)
	require.Len(t, b.events, 1)
	assert.Equal(t, EventAddDelivery, b.events[0].Type)
	assert.Equal(t, 1, b.events[0].Count)
}

func TestCreateTrustedAutoApproves(t *testing.T) {
	// Scenario B: trusted supplier with price 12.50 gets status=1,
	// po=25001 and the stored price immediately.
	store := newFakeStore()
	svc, _, _ := newTestService(store)
	supplier := store.addSupplier(1, 12.50)

	d, err := svc.Create(context.Background(), createInput(supplier))
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, d.Status)
	assert.Equal(t, 25001, d.PO)
	assert.Equal(t, 12.50, d.Price)
}

func TestCreateValidation(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)
	supplier := store.addSupplier(0, 0)

	tests := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"missing supplier", func(in *CreateInput) { in.UserID = uuid.Nil }},
		{"missing material", func(in *CreateInput) { in.MaterialID = uuid.Nil }},
		{"zero weight", func(in *CreateInput) { in.Weight = 0 }},
		{"negative weight", func(in *CreateInput) { in.Weight = -3 }},
		{"zero packages", func(in *CreateInput) { in.CountPackage = 0 }},
		{"empty date", func(in *CreateInput) { in.Date = "" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := createInput(supplier)
			tc.mutate(&in)
			_, err := svc.Create(context.Background(), in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateUnknownSupplier(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	_, err := svc.Create(context.Background(), createInput(uuid.New()))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.deliveries)
}

func TestAdvanceAssignsPOOnApproval(t *testing.T) {
	// Scenario A: untrusted create then advance(0) yields status=1 and
	// the band default 25001 on empty stores.
	store := newFakeStore()
	svc, b, m := newTestService(store)
	supplier := store.addSupplier(0, 0)

	d, err := svc.Create(context.Background(), createInput(supplier))
	require.NoError(t, err)

	got, err := svc.Advance(context.Background(), d.ID, models.StatusWaiting, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, 25001, got.PO)

	// stored row matches
	stored, err := store.FindDelivery(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, 25001, stored.PO)

	// single-record update broadcast + supplier email
	last := b.events[len(b.events)-1]
	assert.Equal(t, EventUpdateDelivery, last.Type)
	require.Len(t, m.sent, 1)
}

func TestAdvancePriceOverride(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)
	supplier := store.addSupplier(0, 0)

	d, err := svc.Create(context.Background(), createInput(supplier))
	require.NoError(t, err)

	price := 9.75
	got, err := svc.Advance(context.Background(), d.ID, models.StatusWaiting, &price)
	require.NoError(t, err)
	assert.Equal(t, 9.75, got.Price)
}

func TestAdvanceKeepsExistingPO(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)
	supplier := store.addSupplier(1, 5)

	d, err := svc.Create(context.Background(), createInput(supplier))
	require.NoError(t, err)
	require.Equal(t, 25001, d.PO)

	got, err := svc.Advance(context.Background(), d.ID, models.StatusPending, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReceived, got.Status)
	assert.Equal(t, 25001, got.PO)
}

func TestAdvanceInvalidStatus(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	for _, status := range []int{-1, 2, 3, 7} {
		_, err := svc.Advance(context.Background(), uuid.New(), status, nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestAdvanceMissingDelivery(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	_, err := svc.Advance(context.Background(), uuid.New(), models.StatusWaiting, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectMovesToArchive(t *testing.T) {
	// Scenario E: after reject, the active store no longer holds the
	// delivery and the archive holds status=-1 with the reason.
	store := newFakeStore()
	svc, _, m := newTestService(store)
	supplier := store.addSupplier(0, 0)

	d, err := svc.Create(context.Background(), createInput(supplier))
	require.NoError(t, err)

	l, err := svc.Reject(context.Background(), d.ID, "contaminated", nil)
	require.NoError(t, err)

	assert.Equal(t, models.StatusRejected, l.Status)
	assert.Equal(t, "contaminated", l.Feedback)

	_, err = store.FindDelivery(context.Background(), d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	require.Len(t, store.logs, 1)
	require.Len(t, m.sent, 1)

	// no loyalty recompute on rejection
	u, _ := store.FindSupplier(context.Background(), supplier)
	assert.Equal(t, 0.0, u.TotalWeight)
	assert.Equal(t, 0, u.Loyalty)
}

func TestCancelArchivesWithoutReasonOrEmail(t *testing.T) {
	store := newFakeStore()
	svc, _, m := newTestService(store)
	supplier := store.addSupplier(0, 0)

	d, err := svc.Create(context.Background(), createInput(supplier))
	require.NoError(t, err)

	l, err := svc.Cancel(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, l.Status)
	assert.Empty(t, l.Feedback)
	assert.Empty(t, m.sent)
}

func TestRejectMissingDelivery(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	_, err := svc.Reject(context.Background(), uuid.New(), "late", nil)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.logs)
}

func TestAcceptWithFeedback(t *testing.T) {
	// Scenario D: total 100.00, tare 15.00 -> netamount 85.00 and the
	// supplier's cumulative weight grows by the full 100.00.
	store := newFakeStore()
	svc, _, m := newTestService(store)
	supplier := store.addSupplier(0, 0)
	store.suppliers[supplier].TotalWeight = 150

	d, err := svc.Create(context.Background(), createInput(supplier))
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), d.ID, models.StatusWaiting, nil)
	require.NoError(t, err)
	_, err = svc.Advance(context.Background(), d.ID, models.StatusPending, nil)
	require.NoError(t, err)

	quality := uuid.New()
	l, err := svc.AcceptWithFeedback(context.Background(), FeedbackInput{
		ID:          d.ID,
		TotalAmount: 100.00,
		TareAmount:  15.00,
		QualityID:   &quality,
		Inspection:  "clean load",
		Feedback:    "good bales",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusAccepted, l.Status)
	assert.Equal(t, 100.00, l.Weight)
	assert.Equal(t, 15.00, l.TareAmount)
	assert.Equal(t, 85.00, l.NetAmount)
	assert.Equal(t, "good bales", l.Feedback)

	u, _ := store.FindSupplier(context.Background(), supplier)
	assert.Equal(t, 250.00, u.TotalWeight)
	assert.Equal(t, 1, u.Loyalty) // >= bronze (200), < silver (500)

	_, err = store.FindDelivery(context.Background(), d.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// each advance mailed too; the acceptance mail is the last one
	require.Len(t, m.sent, 3)
	assert.Contains(t, m.sent[len(m.sent)-1], "Your delivery has been accepted")
}

func TestAcceptLoyaltyTiers(t *testing.T) {
	// Tier ladder against bronze=200 / silver=500 / golden=1000.
	tests := []struct {
		name      string
		oldTotal  float64
		amount    float64
		wantTier  int
		wantTotal float64
	}{
		{"stays at zero", 0, 100, 0, 100},
		{"reaches bronze", 150, 50, 1, 200},
		{"reaches silver", 450, 75.25, 2, 525.25},
		{"reaches golden", 950, 50, 3, 1000},
		{"beyond golden", 2000, 1, 3, 2001},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			svc, _, _ := newTestService(store)
			supplier := store.addSupplier(0, 0)
			store.suppliers[supplier].TotalWeight = tc.oldTotal

			d, err := svc.Create(context.Background(), createInput(supplier))
			require.NoError(t, err)

			_, err = svc.AcceptWithFeedback(context.Background(), FeedbackInput{
				ID:          d.ID,
				TotalAmount: tc.amount,
			})
			require.NoError(t, err)

			u, _ := store.FindSupplier(context.Background(), supplier)
			assert.Equal(t, tc.wantTier, u.Loyalty)
			assert.InDelta(t, tc.wantTotal, u.TotalWeight, 0.001)
		})
	}
}

func TestAcceptValidation(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	_, err := svc.AcceptWithFeedback(context.Background(), FeedbackInput{
		ID:          uuid.New(),
		TotalAmount: 10,
		TareAmount:  11,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AcceptWithFeedback(context.Background(), FeedbackInput{
		ID:          uuid.New(),
		TotalAmount: -1,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRescheduleResetsReadFlag(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)
	supplier := store.addSupplier(0, 0)

	d, err := svc.Create(context.Background(), createInput(supplier))
	require.NoError(t, err)

	_, err = svc.MarkAllRead(context.Background())
	require.NoError(t, err)

	got, err := svc.Reschedule(context.Background(), d.ID, "2025-08-01", 3)
	require.NoError(t, err)
	assert.Equal(t, "2025-08-01", got.Date)
	assert.Equal(t, 3, got.Time)
	assert.False(t, got.Read)
	// status untouched
	assert.Equal(t, models.StatusWaiting, got.Status)
}

func TestMarkAllRead(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)
	supplier := store.addSupplier(0, 0)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), createInput(supplier))
		require.NoError(t, err)
	}

	n, err := svc.MarkAllRead(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = svc.MarkAllRead(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNotifyFailureIsWarningNotRollback(t *testing.T) {
	store := newFakeStore()
	svc, b, _ := newTestService(store)
	b.fail = true
	supplier := store.addSupplier(0, 0)

	d, err := svc.Create(context.Background(), createInput(supplier))
	require.Error(t, err)
	assert.True(t, IsNotifyError(err))

	// the write committed regardless
	require.NotNil(t, d)
	_, ferr := store.FindDelivery(context.Background(), d.ID)
	assert.NoError(t, ferr)
}

func TestEmailFailureIsWarningNotRollback(t *testing.T) {
	store := newFakeStore()
	svc, _, m := newTestService(store)
	m.fail = true
	supplier := store.addSupplier(0, 0)

	d, err := svc.Create(context.Background(), createInput(supplier))
	require.NoError(t, err) // create does not email

	_, err = svc.Advance(context.Background(), d.ID, models.StatusWaiting, nil)
	require.Error(t, err)
	assert.True(t, IsNotifyError(err))

	stored, ferr := store.FindDelivery(context.Background(), d.ID)
	require.NoError(t, ferr)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestSequencingConflictRetries(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)
	supplier := store.addSupplier(1, 1)
	store.counterConflicts = 2 // two lost races, third attempt wins

	d, err := svc.Create(context.Background(), createInput(supplier))
	require.NoError(t, err)
	assert.Equal(t, 25001, d.PO)
}

func TestSequencingConflictExhausted(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)
	supplier := store.addSupplier(1, 1)
	store.counterConflicts = poRetries + 1

	_, err := svc.Create(context.Background(), createInput(supplier))
	assert.ErrorIs(t, err, ErrSequencingConflict)
}

func TestDeliveryNeverInBothStores(t *testing.T) {
	// Walk several deliveries through mixed outcomes and verify the
	// exactly-one-store invariant after every operation.
	store := newFakeStore()
	svc, _, _ := newTestService(store)
	supplier := store.addSupplier(0, 0)

	check := func() {
		t.Helper()
		for id := range store.deliveries {
			for _, l := range store.logs {
				if l.PO != 0 && l.PO == store.deliveries[id].PO {
					t.Fatalf("po %d present in both stores", l.PO)
				}
			}
		}
	}

	for i := 0; i < 4; i++ {
		d, err := svc.Create(context.Background(), createInput(supplier))
		require.NoError(t, err)
		check()

		_, err = svc.Advance(context.Background(), d.ID, models.StatusWaiting, nil)
		require.NoError(t, err)
		check()

		switch i % 2 {
		case 0:
			_, err = svc.Reject(context.Background(), d.ID, "mixed load", nil)
		case 1:
			_, err = svc.Advance(context.Background(), d.ID, models.StatusPending, nil)
			require.NoError(t, err)
			_, err = svc.AcceptWithFeedback(context.Background(), FeedbackInput{ID: d.ID, TotalAmount: 10})
		}
		require.NoError(t, err)
		check()
	}

	assert.Empty(t, store.deliveries)
	assert.Len(t, store.logs, 4)
}
