// pkg/delivery/sequencer.go
package delivery

import (
	"context"
	"time"

	"github.com/wittycoder91/DeliveryBackend/models"
)

// Sequencer hands out purchase-order numbers. Numbers are plain
// integers banded by a two-digit year prefix: year 2025 owns the
// 25000 band and its first PO is 25001. The watermark is re-derived
// from both delivery tables on every assignment because either table
// may hold the most recently issued number.
type Sequencer struct {
	now func() time.Time
}

func NewSequencer() *Sequencer {
	return &Sequencer{now: time.Now}
}

// NewSequencerAt pins the sequencer clock, for tests.
func NewSequencerAt(now func() time.Time) *Sequencer {
	return &Sequencer{now: now}
}

// DefaultPO is the first number of a year's band: (year%100)*1000 + 1.
func DefaultPO(year int) int {
	return (year%100)*1000 + 1
}

// Next assigns the next PO. It must be called inside the same
// transaction that writes the delivery: the per-band counter row is
// locked for the rest of that transaction, which serializes
// concurrent approvals. The counter is seeded from (and never falls
// behind) the max PO across active and archived deliveries, so
// numbers stay unique even where history predates the counter table.
func (s *Sequencer) Next(ctx context.Context, tx Store) (int, error) {
	year := s.now().Year()
	def := DefaultPO(year)
	band := def - 1

	counter, found, err := tx.LockCounter(ctx, band)
	if err != nil {
		return 0, storageErr("lock po counter", err)
	}

	activeMax, err := tx.MaxActivePO(ctx)
	if err != nil {
		return 0, storageErr("max active po", err)
	}
	archivedMax, err := tx.MaxArchivedPO(ctx)
	if err != nil {
		return 0, storageErr("max archived po", err)
	}

	cur := activeMax
	if archivedMax > cur {
		cur = archivedMax
	}
	if found && counter.Value > cur {
		cur = counter.Value
	}

	// A zero watermark means nothing has been numbered yet; a
	// watermark below the default means a new year band has started.
	// Gaps left by rejected deliveries are never refilled.
	next := cur + 1
	if cur == 0 || cur < def {
		next = def
	}

	if !found {
		counter = &models.POCounter{YearBand: band}
	}
	counter.Value = next
	if err := tx.SaveCounter(ctx, counter); err != nil {
		return 0, storageErr("save po counter", err)
	}
	return next, nil
}
