package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRecorder_RecordsAndCounts(t *testing.T) {
	rec := NewEventRecorder("OrdemFinalizada")
	tenantID := uuid.New()

	require.NoError(t, rec.Handle(context.Background(), StubEvent("OrdemFinalizada", tenantID)))
	require.NoError(t, rec.Handle(context.Background(), StubEvent("LancamentoGerado", tenantID)))

	assert.Equal(t, 2, rec.Count())
	assert.Equal(t, 1, rec.CountOf("OrdemFinalizada"))
	assert.Equal(t, tenantID, rec.Events()[0].TenantID())
}

func TestEventRecorder_FailWith(t *testing.T) {
	rec := NewEventRecorder()
	rec.FailWith(assert.AnError)

	err := rec.Handle(context.Background(), StubEvent("OrdemFinalizada", uuid.New()))
	assert.Equal(t, assert.AnError, err)
	assert.Equal(t, 1, rec.Count(), "a failing handler still records the event")
}

func TestEventRecorder_WaitFor(t *testing.T) {
	rec := NewEventRecorder()

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = rec.Handle(context.Background(), StubEvent("OrdemFinalizada", uuid.New()))
	}()

	assert.True(t, rec.WaitFor(1, time.Second))
	assert.False(t, rec.WaitFor(2, 50*time.Millisecond))
}
