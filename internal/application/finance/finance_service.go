package finance

import (
	"context"
	"errors"
	"strings"

	"github.com/osworks/backend/internal/domain/finance"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/osworks/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FinanceService manages ledger entries and their PIX payments
type FinanceService struct {
	ledgerRepo     finance.LedgerRepository
	paymentRepo    finance.PaymentRepository
	eventPublisher shared.EventPublisher
}

// NewFinanceService creates a new FinanceService
func NewFinanceService(
	ledgerRepo finance.LedgerRepository,
	paymentRepo finance.PaymentRepository,
	eventPublisher shared.EventPublisher,
) *FinanceService {
	return &FinanceService{
		ledgerRepo:     ledgerRepo,
		paymentRepo:    paymentRepo,
		eventPublisher: eventPublisher,
	}
}

// CreateEntry registers a standalone ledger entry, not tied to an
// order finalization.
func (s *FinanceService) CreateEntry(ctx context.Context, tenantID uuid.UUID, req CreateLedgerEntryRequest) (*LedgerEntryResponse, error) {
	entry, err := finance.NewLedgerEntry(tenantID, req.ClientID, req.OrderID,
		req.Description, req.Amount, req.DueDate)
	if err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, entry)

	response := ToLedgerEntryResponse(entry)
	return &response, nil
}

// Get returns one ledger entry
func (s *FinanceService) Get(ctx context.Context, id uuid.UUID) (*LedgerEntryResponse, error) {
	entry, err := s.ledgerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToLedgerEntryResponse(entry)
	return &response, nil
}

// List returns a page of ledger entries
func (s *FinanceService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[LedgerEntryResponse], error) {
	entries, total, err := s.ledgerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToLedgerEntryResponse(&entries[i])
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Cancel voids a pending ledger entry
func (s *FinanceService) Cancel(ctx context.Context, id uuid.UUID) (*LedgerEntryResponse, error) {
	entry, err := s.ledgerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entry.Cancel(); err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	response := ToLedgerEntryResponse(entry)
	return &response, nil
}

// CreatePixCharge opens a pending PIX payment for a ledger entry. The
// call is idempotent: an existing pending charge is returned as-is.
func (s *FinanceService) CreatePixCharge(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	entry, err := s.ledgerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entry.IsPending() {
		return nil, shared.NewDomainError("LEDGER_NOT_PENDING", "Only pending entries can be charged")
	}

	existing, err := s.paymentRepo.FindByLedgerEntry(ctx, entry.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.Status == finance.PaymentStatusPendente {
		response := ToPaymentResponse(existing)
		return &response, nil
	}

	payment, err := finance.NewPayment(entry.TenantID, entry.ID, entry.ClientID, newTxID(), entry.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}

	logger.L(ctx).Info("pix charge created",
		zap.String("payment_id", payment.ID.String()),
		zap.String("ledger_entry_id", entry.ID.String()),
		zap.String("tx_id", payment.TxID),
	)
	response := ToPaymentResponse(payment)
	return &response, nil
}

// ConfirmPayment settles a pending ledger entry. A pending PIX charge
// is confirmed alongside; without one a manual payment record is
// created so every settlement leaves a payment trail.
func (s *FinanceService) ConfirmPayment(ctx context.Context, id uuid.UUID) (*LedgerEntryResponse, error) {
	entry, err := s.ledgerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.FindByLedgerEntry(ctx, entry.ID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		payment, err = finance.NewPayment(entry.TenantID, entry.ID, entry.ClientID, newTxID(), entry.Amount)
		if err != nil {
			return nil, err
		}
	}
	if payment.Status == finance.PaymentStatusPendente {
		if err := payment.Confirm(); err != nil {
			return nil, err
		}
	}

	if err := entry.MarkPaid(payment.ID); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, entry)

	response := ToLedgerEntryResponse(entry)
	return &response, nil
}

// GetPayment returns the newest payment for a ledger entry
func (s *FinanceService) GetPayment(ctx context.Context, ledgerEntryID uuid.UUID) (*PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByLedgerEntry(ctx, ledgerEntryID)
	if err != nil {
		return nil, err
	}
	response := ToPaymentResponse(payment)
	return &response, nil
}

func (s *FinanceService) publishEvents(ctx context.Context, entry *finance.LedgerEntry) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range entry.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			logger.L(ctx).Warn("failed to publish ledger event",
				zap.String("event_type", event.EventType()),
				zap.String("ledger_entry_id", entry.ID.String()),
				zap.Error(err),
			)
		}
	}
	entry.ClearDomainEvents()
}

// newTxID generates a PIX transaction identifier: 25 upper-case
// hex characters, within the 26-char txid limit of the PIX spec.
func newTxID() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(raw[:25])
}
