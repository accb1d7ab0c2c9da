// pkg/delivery/sequencer_test.go
package delivery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wittycoder91/DeliveryBackend/models"
)

func atYear(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.March, 1, 12, 0, 0, 0, time.UTC)
	}
}

func TestDefaultPO(t *testing.T) {
	tests := []struct {
		year int
		want int
	}{
		{2024, 24001},
		{2025, 25001},
		{2026, 26001},
		{2099, 99001},
		{2100, 1}, // band wraps with the century
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, DefaultPO(tc.year), "year %d", tc.year)
	}
}

func TestSequencerFirstAssignment(t *testing.T) {
	store := newFakeStore()
	seq := NewSequencerAt(atYear(2025))

	po, err := seq.Next(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, 25001, po)
}

func TestSequencerFollowsArchiveWatermark(t *testing.T) {
	// Scenario C: archive holds max po=25050, active store empty, so
	// the next assignment is 25051.
	store := newFakeStore()
	store.logs = append(store.logs, &models.DeliveryLog{PO: 25050, Status: models.StatusAccepted})
	seq := NewSequencerAt(atYear(2025))

	po, err := seq.Next(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, 25051, po)
}

func TestSequencerFollowsActiveWatermark(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, store.CreateDelivery(context.Background(), &models.Delivery{PO: 25010}))
	seq := NewSequencerAt(atYear(2025))

	po, err := seq.Next(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, 25011, po)
}

func TestSequencerTakesHigherOfBothStores(t *testing.T) {
	store := newFakeStore()
	require.NoError(t, store.CreateDelivery(context.Background(), &models.Delivery{PO: 25007}))
	store.logs = append(store.logs, &models.DeliveryLog{PO: 25031})
	seq := NewSequencerAt(atYear(2025))

	po, err := seq.Next(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, 25032, po)
}

func TestSequencerNewYearBandResets(t *testing.T) {
	// Last year's numbers sit below the new default, so the new band
	// starts fresh instead of continuing the old sequence.
	store := newFakeStore()
	store.logs = append(store.logs, &models.DeliveryLog{PO: 25391})
	seq := NewSequencerAt(atYear(2026))

	po, err := seq.Next(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, 26001, po)
}

func TestSequencerMonotonicUniqueRun(t *testing.T) {
	// A run of N assignments is strictly increasing, hence unique.
	store := newFakeStore()
	seq := NewSequencerAt(atYear(2025))

	prev := 0
	for i := 0; i < 50; i++ {
		po, err := seq.Next(context.Background(), store)
		require.NoError(t, err)
		assert.Greater(t, po, prev)
		prev = po
		// half the numbers land in the archive, half stay active
		if i%2 == 0 {
			store.logs = append(store.logs, &models.DeliveryLog{PO: po})
		} else {
			require.NoError(t, store.CreateDelivery(context.Background(), &models.Delivery{PO: po}))
		}
	}
	assert.Equal(t, 25050, prev)
}

func TestSequencerCounterOutrunsWatermark(t *testing.T) {
	// Rejected deliveries leave gaps: the counter remembers 25005 even
	// if every numbered row was archived and later the tables only
	// reach 25002. The counter never decrements.
	store := newFakeStore()
	store.counters[25000] = &models.POCounter{YearBand: 25000, Value: 25005}
	store.logs = append(store.logs, &models.DeliveryLog{PO: 25002})
	seq := NewSequencerAt(atYear(2025))

	po, err := seq.Next(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, 25006, po)
}
