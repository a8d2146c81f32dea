// Package messaging delivers outbound notifications to clients.
//
// The only channel today is WhatsApp Cloud API. The worker depends on
// the Notifier interface so tests and installations without WhatsApp
// credentials run against the noop implementation.
package messaging

import (
	"context"

	"github.com/google/uuid"
	"github.com/osworks/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// SendInput carries one outbound message
type SendInput struct {
	TenantID uuid.UUID
	ClientID uuid.UUID
	Phone    string
	Body     string
	// Kind tags the message for logging (os_criada, lembrete_pagamento, ...)
	Kind string
	// RefID points at the entity the message is about
	RefID uuid.UUID
}

// Notifier sends a message to a client. Implementations must be safe
// for concurrent use by the worker pool.
type Notifier interface {
	Send(ctx context.Context, input SendInput) error
}

// NoopNotifier logs instead of sending. Used when WhatsApp is disabled.
type NoopNotifier struct{}

// Send logs the message and reports success
func (NoopNotifier) Send(ctx context.Context, input SendInput) error {
	logger.L(ctx).Info("notification suppressed, messaging disabled",
		zap.String("kind", input.Kind),
		zap.String("client_id", input.ClientID.String()),
		zap.String("ref_id", input.RefID.String()),
	)
	return nil
}
