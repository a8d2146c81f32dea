package automation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name   string
		amount decimal.Decimal
		want   string
	}{
		{"simple", decimal.NewFromInt(350), "R$ 350,00"},
		{"cents", decimal.RequireFromString("1234.56"), "R$ 1.234,56"},
		{"millions", decimal.RequireFromString("1234567.89"), "R$ 1.234.567,89"},
		{"zero", decimal.Zero, "R$ 0,00"},
		{"negative", decimal.RequireFromString("-80.50"), "-R$ 80,50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatCurrency(tt.amount))
		})
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, 1, 31, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "31/01/2026", formatDate(d))
}

func TestGreetingName(t *testing.T) {
	tests := []struct {
		name string
		full string
		want string
	}{
		{"first name only kept", "Maria Silva", "Maria"},
		{"uppercase normalized", "MARIA SILVA", "Maria"},
		{"lowercase normalized", "joão souza", "João"},
		{"single name", "Maria", "Maria"},
		{"surrounding spaces", "  Maria Silva ", "Maria"},
		{"empty stays empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, greetingName(tt.full))
		})
	}
}

func TestDayWord(t *testing.T) {
	assert.Equal(t, "dia", dayWord(1))
	assert.Equal(t, "dias", dayWord(3))
}
