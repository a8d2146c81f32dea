package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osworks/backend/internal/domain/billing"
	"github.com/osworks/backend/internal/domain/finance"
	"github.com/osworks/backend/internal/domain/partner"
	"github.com/osworks/backend/internal/domain/shared"
	"github.com/osworks/backend/internal/infrastructure/logger"
	"github.com/osworks/backend/internal/infrastructure/messaging"
	"go.uber.org/zap"
)

// PixResendConfig controls payment resend eligibility
type PixResendConfig struct {
	// Cooldown is the minimum interval between charge messages for the
	// same payment.
	Cooldown time.Duration
	// MinLedgerAge keeps freshly created charges out of the resend
	// sweep; the original charge message covers those.
	MinLedgerAge time.Duration
}

// PixResendJob re-sends pending PIX charges whose last notification is
// older than the cool-down. It runs daily, independent of the
// automation rule pipeline, and never creates new payments.
type PixResendJob struct {
	paymentRepo finance.PaymentRepository
	ledgerRepo  finance.LedgerRepository
	clientRepo  partner.ClientRepository
	notifier    messaging.Notifier
	features    FeatureGate
	config      PixResendConfig
	logger      *zap.Logger
}

// NewPixResendJob creates a new PixResendJob
func NewPixResendJob(
	paymentRepo finance.PaymentRepository,
	ledgerRepo finance.LedgerRepository,
	clientRepo partner.ClientRepository,
	notifier messaging.Notifier,
	features FeatureGate,
	config PixResendConfig,
	logger *zap.Logger,
) *PixResendJob {
	if config.Cooldown <= 0 {
		config.Cooldown = 24 * time.Hour
	}
	if config.MinLedgerAge <= 0 {
		config.MinLedgerAge = time.Hour
	}
	return &PixResendJob{
		paymentRepo: paymentRepo,
		ledgerRepo:  ledgerRepo,
		clientRepo:  clientRepo,
		notifier:    notifier,
		features:    features,
		config:      config,
		logger:      logger,
	}
}

// Name returns the task name
func (j *PixResendJob) Name() string {
	return "pix_charge_resend"
}

// Run sweeps all tenants for resend-eligible payments. Per-payment
// failures are logged and never abort the sweep.
func (j *PixResendJob) Run(ctx context.Context, now time.Time) error {
	cutoff := now.Add(-j.config.Cooldown)
	minLedgerAge := now.Add(-j.config.MinLedgerAge)

	payments, err := j.paymentRepo.FindPendingForResend(ctx, cutoff, minLedgerAge)
	if err != nil {
		return err
	}
	if len(payments) == 0 {
		return nil
	}

	j.logger.Info("resending pending pix charges", zap.Int("count", len(payments)))

	for i := range payments {
		payment := &payments[i]
		if err := j.resend(ctx, payment, now); err != nil {
			j.logger.Warn("failed to resend pix charge",
				zap.String("payment_id", payment.ID.String()),
				zap.String("tenant_id", payment.TenantID.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (j *PixResendJob) resend(ctx context.Context, payment *finance.Payment, now time.Time) error {
	ctx, _ = logger.WithTenantID(ctx, j.logger, payment.TenantID.String())

	allowed, err := j.features.HasFeature(ctx, payment.TenantID, billing.FeatureWhatsApp)
	if err != nil {
		return err
	}
	if !allowed {
		return nil
	}

	// The sweep query already filters on the ledger, but state may have
	// moved since.
	entry, err := j.ledgerRepo.FindByID(ctx, payment.LedgerEntryID)
	if err != nil {
		return err
	}
	if !entry.IsPending() {
		return nil
	}

	client, err := j.clientRepo.FindByID(ctx, payment.ClientID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if !client.HasPhone() {
		return nil
	}

	body := fmt.Sprintf("Olá, %s! O pagamento de %s via PIX ainda está pendente (vencimento em %s). Seguem os dados da cobrança para facilitar.",
		greetingName(client.Name), formatCurrency(payment.Amount), formatDate(entry.DueDate))
	if err := j.notifier.Send(ctx, messaging.SendInput{
		TenantID: payment.TenantID,
		ClientID: client.ID,
		Phone:    client.Phone,
		Body:     body,
		Kind:     "pix_resend",
		RefID:    payment.ID,
	}); err != nil {
		return err
	}

	payment.MarkNotified(now)
	return j.paymentRepo.Save(ctx, payment)
}
