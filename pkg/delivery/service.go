// pkg/delivery/service.go
//
// The delivery lifecycle: suppliers submit requests, staff walk them
// through waiting -> pending -> received, and every terminal outcome
// (accept with feedback, reject, cancel) moves the row out of the
// active table into the append-only archive in a single transaction.
package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/wittycoder91/DeliveryBackend/models"
	"github.com/wittycoder91/DeliveryBackend/utils"
)

// poRetries bounds the optimistic retry loop around PO assignment.
const poRetries = 3

// Service owns every delivery state transition. All collaborators are
// injected; the service itself keeps no state beyond them.
type Service struct {
	store       Store
	seq         *Sequencer
	broadcaster Broadcaster
	mailer      Mailer
	log         *zap.Logger
}

func NewService(store Store, seq *Sequencer, broadcaster Broadcaster, mailer Mailer, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, seq: seq, broadcaster: broadcaster, mailer: mailer, log: log}
}

// CreateInput is a new delivery request as submitted by a supplier.
type CreateInput struct {
	UserID       uuid.UUID
	MaterialID   uuid.UUID
	PackagingID  uuid.UUID
	ColorID      uuid.UUID
	ResidueID    uuid.UUID
	ConditionID  uuid.UUID
	Weight       float64
	CountPackage int
	Date         string
	Time         int
	Other        string
	Images       []string
	SdsPath      string
}

// FeedbackInput closes out a received delivery with grading data.
type FeedbackInput struct {
	ID             uuid.UUID
	TotalAmount    float64
	TareAmount     float64
	QualityID      *uuid.UUID
	CountPackage   int
	PackagingID    uuid.UUID
	Inspection     string
	Feedback       string
	FeedbackImages []string
}

// Create stores a new delivery request. Untrusted suppliers start at
// Waiting with no PO; trusted suppliers start at Pending with a PO
// assigned and their pre-negotiated price stamped on. The returned
// error is a *NotifyError when only the post-commit broadcast failed.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Delivery, error) {
	if in.UserID == uuid.Nil || in.MaterialID == uuid.Nil || in.PackagingID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing supplier, material or packaging", ErrInvalidInput)
	}
	if in.Weight <= 0 || in.CountPackage <= 0 || in.Date == "" {
		return nil, fmt.Errorf("%w: weight, package count and date are required", ErrInvalidInput)
	}

	d := &models.Delivery{
		UserID:       in.UserID,
		MaterialID:   in.MaterialID,
		PackagingID:  in.PackagingID,
		ColorID:      in.ColorID,
		ResidueID:    in.ResidueID,
		ConditionID:  in.ConditionID,
		Weight:       utils.Round2(in.Weight),
		CountPackage: in.CountPackage,
		Status:       models.StatusWaiting,
		Date:         in.Date,
		Time:         in.Time,
		Other:        in.Other,
		Images:       pq.StringArray(in.Images),
		SdsPath:      in.SdsPath,
		Read:         false,
	}

	err := s.withPORetry(ctx, func(tx Store) error {
		supplier, err := tx.FindSupplier(ctx, in.UserID)
		if err != nil {
			return storageErr("find supplier", err)
		}
		if supplier.Trust == 1 {
			po, err := s.seq.Next(ctx, tx)
			if err != nil {
				return err
			}
			d.Status = models.StatusPending
			d.PO = po
			d.Price = supplier.Price
		}
		return storageErr("create delivery", tx.CreateDelivery(ctx, d))
	})
	if err != nil {
		return nil, err
	}

	return d, s.broadcastUnread(ctx, "A new delivery has been added")
}

// Advance moves a delivery forward one step. The caller passes the
// status it is looking at (0 or 1) and the delivery lands on the next
// one; the 0->1 edge assigns a PO when none is set and may stamp a
// price override agreed during review.
func (s *Service) Advance(ctx context.Context, id uuid.UUID, current int, priceOverride *float64) (*models.Delivery, error) {
	if current != models.StatusWaiting && current != models.StatusPending {
		return nil, fmt.Errorf("%w: cannot advance from status %d", ErrInvalidInput, current)
	}

	var d *models.Delivery
	var supplierEmail string
	err := s.withPORetry(ctx, func(tx Store) error {
		var err error
		d, err = tx.FindDelivery(ctx, id)
		if err != nil {
			return storageErr("find delivery", err)
		}
		d.Status = current + 1
		if current == models.StatusWaiting && d.PO == 0 {
			po, err := s.seq.Next(ctx, tx)
			if err != nil {
				return err
			}
			d.PO = po
		}
		if priceOverride != nil {
			d.Price = *priceOverride
		}
		if supplier, err := tx.FindSupplier(ctx, d.UserID); err == nil {
			supplierEmail = supplier.Email
		}
		return storageErr("save delivery", tx.SaveDelivery(ctx, d))
	})
	if err != nil {
		return nil, err
	}

	subject := "Your delivery request has been approved"
	body := fmt.Sprintf("Your delivery has been approved and assigned purchase order %d.", d.PO)
	if d.Status == models.StatusReceived {
		subject = "Your delivery has been received"
		body = fmt.Sprintf("Your delivery with purchase order %d has been received at our dock.", d.PO)
	}
	return d, s.notifyUpdate(ctx, d, supplierEmail, subject, body)
}

// Reject archives a delivery with status -1 and the given reason and
// evidence images. No PO change, no loyalty recompute.
func (s *Service) Reject(ctx context.Context, id uuid.UUID, reason string, evidence []string) (*models.DeliveryLog, error) {
	return s.archive(ctx, id, reason, evidence, true)
}

// Cancel withdraws a waiting or pending delivery. Same archive move
// as Reject but with no reason or evidence attached.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*models.DeliveryLog, error) {
	return s.archive(ctx, id, "", nil, false)
}

func (s *Service) archive(ctx context.Context, id uuid.UUID, reason string, evidence []string, email bool) (*models.DeliveryLog, error) {
	var l *models.DeliveryLog
	var supplierEmail string
	err := s.store.Transact(ctx, func(tx Store) error {
		d, err := tx.FindDelivery(ctx, id)
		if err != nil {
			return storageErr("find delivery", err)
		}
		l = logFromDelivery(d)
		l.Status = models.StatusRejected
		l.Feedback = reason
		l.FeedbackImages = pq.StringArray(evidence)
		if supplier, err := tx.FindSupplier(ctx, d.UserID); err == nil {
			supplierEmail = supplier.Email
		}
		if err := tx.DeleteDelivery(ctx, id); err != nil {
			return storageErr("delete delivery", err)
		}
		return storageErr("insert delivery log", tx.InsertLog(ctx, l))
	})
	if err != nil {
		return nil, err
	}

	if !email {
		supplierEmail = ""
	}
	body := "Your delivery request has been rejected."
	if reason != "" {
		body = fmt.Sprintf("Your delivery request has been rejected: %s", reason)
	}
	return l, s.notifyLogUpdate(ctx, l, supplierEmail, "Your delivery request has been rejected", body)
}

// AcceptWithFeedback is the happy terminal path: grade the received
// material, settle the net amount, bump the supplier's cumulative
// weight and loyalty tier, and archive the enriched record. The whole
// move is one transaction.
func (s *Service) AcceptWithFeedback(ctx context.Context, in FeedbackInput) (*models.DeliveryLog, error) {
	if in.TotalAmount < 0 || in.TareAmount < 0 || in.TareAmount > in.TotalAmount {
		return nil, fmt.Errorf("%w: tare amount must be between zero and the total amount", ErrInvalidInput)
	}

	var l *models.DeliveryLog
	var supplierEmail string
	var newLoyalty int
	err := s.store.Transact(ctx, func(tx Store) error {
		d, err := tx.FindDelivery(ctx, in.ID)
		if err != nil {
			return storageErr("find delivery", err)
		}
		supplier, err := tx.FindSupplier(ctx, d.UserID)
		if err != nil {
			return storageErr("find supplier", err)
		}
		settings, err := tx.Settings(ctx)
		if err != nil {
			return storageErr("load settings", err)
		}

		total := utils.Round2(supplier.TotalWeight + in.TotalAmount)
		newLoyalty = settings.LoyaltyTier(total)
		supplierEmail = supplier.Email

		l = logFromDelivery(d)
		l.Status = d.Status + 1
		l.Weight = utils.Round2(in.TotalAmount)
		l.TareAmount = utils.Round2(in.TareAmount)
		l.NetAmount = utils.Round2(in.TotalAmount - in.TareAmount)
		l.QualityID = in.QualityID
		l.Inspection = in.Inspection
		l.Feedback = in.Feedback
		l.FeedbackImages = pq.StringArray(in.FeedbackImages)
		if in.CountPackage > 0 {
			l.CountPackage = in.CountPackage
		}
		if in.PackagingID != uuid.Nil {
			l.PackagingID = in.PackagingID
		}

		if err := tx.UpdateSupplierTotals(ctx, supplier.ID, total, newLoyalty); err != nil {
			return storageErr("update supplier totals", err)
		}
		if err := tx.DeleteDelivery(ctx, in.ID); err != nil {
			return storageErr("delete delivery", err)
		}
		return storageErr("insert delivery log", tx.InsertLog(ctx, l))
	})
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf(
		"Your delivery with purchase order %d has been accepted. Net amount credited: %.2f lbs. Your loyalty tier is now %d.",
		l.PO, l.NetAmount, newLoyalty,
	)
	return l, s.notifyLogUpdate(ctx, l, supplierEmail, "Your delivery has been accepted", body)
}

// Reschedule updates date and time slot on an active delivery and
// resets the read flag so the admin badge picks the change up again.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, date string, timeSlot int) (*models.Delivery, error) {
	if date == "" {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	var d *models.Delivery
	err := s.store.Transact(ctx, func(tx Store) error {
		var err error
		d, err = tx.FindDelivery(ctx, id)
		if err != nil {
			return storageErr("find delivery", err)
		}
		d.Date = date
		d.Time = timeSlot
		d.Read = false
		return storageErr("save delivery", tx.SaveDelivery(ctx, d))
	})
	if err != nil {
		return nil, err
	}

	return d, s.broadcastUnread(ctx, "The delivery data has been updated successfully")
}

// MarkAllRead flips every unread delivery to read and returns how
// many rows changed. Used by the admin badge after it renders.
func (s *Service) MarkAllRead(ctx context.Context) (int64, error) {
	n, err := s.store.MarkDeliveriesRead(ctx)
	return n, storageErr("mark deliveries read", err)
}

// withPORetry re-runs fn when a concurrent transaction claimed the
// same PO counter first. Retries exhaust into ErrSequencingConflict.
func (s *Service) withPORetry(ctx context.Context, fn func(tx Store) error) error {
	var err error
	for i := 0; i < poRetries; i++ {
		err = s.store.Transact(ctx, fn)
		if !errors.Is(err, ErrSequencingConflict) {
			return err
		}
		s.log.Warn("po assignment collided, retrying", zap.Int("attempt", i+1))
	}
	return err
}

// broadcastUnread pushes the full unread batch, mirroring the admin
// badge contract: count plus enriched rows.
func (s *Service) broadcastUnread(ctx context.Context, message string) error {
	if s.broadcaster == nil {
		return nil
	}
	unread, err := s.store.UnreadDeliveries(ctx)
	if err != nil {
		s.log.Warn("unread batch load failed after commit", zap.Error(err))
		return &NotifyError{Err: err}
	}
	enriched := make([]EnrichedDelivery, 0, len(unread))
	for i := range unread {
		enriched = append(enriched, s.enrich(ctx, &unread[i]))
	}
	ev := Event{
		Type:    EventAddDelivery,
		Message: message,
		Count:   len(unread),
		Data:    enriched,
	}
	if err := s.broadcaster.Broadcast(ctx, ev); err != nil {
		s.log.Warn("broadcast failed", zap.String("type", ev.Type), zap.Error(err))
		return &NotifyError{Err: err}
	}
	return nil
}

// notifyUpdate broadcasts a single-record update and emails the
// supplier. Both are best effort: the first failure is wrapped in a
// NotifyError and the transition stands.
func (s *Service) notifyUpdate(ctx context.Context, d *models.Delivery, email, subject, body string) error {
	var firstErr error
	if s.broadcaster != nil {
		ev := Event{
			Type:    EventUpdateDelivery,
			Message: "Your delivery request status has been successfully updated.",
			Count:   1,
			Data:    s.enrich(ctx, d),
		}
		if err := s.broadcaster.Broadcast(ctx, ev); err != nil {
			s.log.Warn("broadcast failed", zap.String("type", ev.Type), zap.Error(err))
			firstErr = err
		}
	}
	if err := s.sendMail(ctx, email, subject, body); err != nil && firstErr == nil {
		firstErr = err
	}
	if firstErr != nil {
		return &NotifyError{Err: firstErr}
	}
	return nil
}

func (s *Service) notifyLogUpdate(ctx context.Context, l *models.DeliveryLog, email, subject, body string) error {
	var firstErr error
	if s.broadcaster != nil {
		ev := Event{
			Type:    EventUpdateDelivery,
			Message: "Your delivery request status has been successfully updated.",
			Count:   1,
			Data:    s.enrichLog(ctx, l),
		}
		if err := s.broadcaster.Broadcast(ctx, ev); err != nil {
			s.log.Warn("broadcast failed", zap.String("type", ev.Type), zap.Error(err))
			firstErr = err
		}
	}
	if err := s.sendMail(ctx, email, subject, body); err != nil && firstErr == nil {
		firstErr = err
	}
	if firstErr != nil {
		return &NotifyError{Err: firstErr}
	}
	return nil
}

func (s *Service) sendMail(ctx context.Context, to, subject, body string) error {
	if s.mailer == nil || to == "" {
		return nil
	}
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		s.log.Warn("email send failed", zap.String("to", to), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) enrich(ctx context.Context, d *models.Delivery) EnrichedDelivery {
	userName, materialName, packagingName, err := s.store.ResolveNames(ctx, d.UserID, d.MaterialID, d.PackagingID)
	if err != nil {
		s.log.Warn("name resolution failed", zap.Error(err))
	}
	return EnrichedDelivery{
		Delivery:      *d,
		UserName:      userName,
		MaterialName:  materialName,
		PackagingName: packagingName,
	}
}

func (s *Service) enrichLog(ctx context.Context, l *models.DeliveryLog) EnrichedLog {
	userName, materialName, packagingName, err := s.store.ResolveNames(ctx, l.UserID, l.MaterialID, l.PackagingID)
	if err != nil {
		s.log.Warn("name resolution failed", zap.Error(err))
	}
	return EnrichedLog{
		DeliveryLog:   *l,
		UserName:      userName,
		MaterialName:  materialName,
		PackagingName: packagingName,
	}
}

// logFromDelivery enumerates exactly which fields carry over into the
// archive. The active-row ID is dropped; outcome fields are zero until
// the caller fills them in.
func logFromDelivery(d *models.Delivery) *models.DeliveryLog {
	return &models.DeliveryLog{
		UserID:       d.UserID,
		PO:           d.PO,
		MaterialID:   d.MaterialID,
		PackagingID:  d.PackagingID,
		ColorID:      d.ColorID,
		ResidueID:    d.ResidueID,
		ConditionID:  d.ConditionID,
		Weight:       d.Weight,
		CountPackage: d.CountPackage,
		Price:        d.Price,
		Status:       d.Status,
		Date:         d.Date,
		Time:         d.Time,
		Other:        d.Other,
		Images:       d.Images,
		SdsPath:      d.SdsPath,
		CreatedAt:    d.CreatedAt,
	}
}
