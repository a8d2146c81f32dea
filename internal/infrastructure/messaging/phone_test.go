package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "mobile with DDD gets country code",
			raw:  "11987654321",
			want: "5511987654321",
		},
		{
			name: "landline with DDD gets country code",
			raw:  "1133334444",
			want: "551133334444",
		},
		{
			name: "already international stays untouched",
			raw:  "5511987654321",
			want: "5511987654321",
		},
		{
			name: "formatting characters are stripped",
			raw:  "+55 (11) 98765-4321",
			want: "5511987654321",
		},
		{
			name:    "empty phone",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "too short",
			raw:     "98765",
			wantErr: true,
		},
		{
			name:    "letters only",
			raw:     "sem telefone",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPhone)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
