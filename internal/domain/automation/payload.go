package automation

import (
	"encoding/json"
	"time"

	"github.com/osworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Target entity types referenced by executions
const (
	EntityOrdemServico = "ordem_servico"
	EntityLancamento   = "financeiro_lancamento"
	EntityPagamento    = "pagamento"
)

// Payload is the typed snapshot attached to an execution. Handlers use
// it only for lookup keys and message context; current state is always
// re-fetched before sending.
type Payload interface {
	Kind() string
}

// Payload kinds
const (
	PayloadKindOrder   = "order"
	PayloadKindLedger  = "ledger"
	PayloadKindPayment = "payment"
)

// OrderPayload snapshots an order-related event
type OrderPayload struct {
	OrdemServicoID uuid.UUID       `json:"ordem_servico_id"`
	Numero         string          `json:"numero"`
	StatusAtual    string          `json:"status_atual"`
	Total          decimal.Decimal `json:"total"`
	Dias           int             `json:"dias,omitempty"`
}

// Kind returns the payload kind tag
func (OrderPayload) Kind() string { return PayloadKindOrder }

// LedgerPayload snapshots a ledger-related event
type LedgerPayload struct {
	LancamentoID uuid.UUID       `json:"lancamento_id"`
	ClienteID    uuid.UUID       `json:"cliente_id"`
	Valor        decimal.Decimal `json:"valor"`
	Vencimento   time.Time       `json:"vencimento"`
	Dias         int             `json:"dias,omitempty"`
}

// Kind returns the payload kind tag
func (LedgerPayload) Kind() string { return PayloadKindLedger }

// PaymentPayload snapshots a payment-related event
type PaymentPayload struct {
	PagamentoID  uuid.UUID       `json:"pagamento_id"`
	LancamentoID uuid.UUID       `json:"lancamento_id"`
	Valor        decimal.Decimal `json:"valor"`
}

// Kind returns the payload kind tag
func (PaymentPayload) Kind() string { return PayloadKindPayment }

// MarshalPayload serializes a payload with its kind tag
func MarshalPayload(p Payload) (kind string, data []byte, err error) {
	data, err = json.Marshal(p)
	if err != nil {
		return "", nil, err
	}
	return p.Kind(), data, nil
}

// UnmarshalPayload deserializes a payload from its kind tag and bytes
func UnmarshalPayload(kind string, data []byte) (Payload, error) {
	switch kind {
	case PayloadKindOrder:
		var p OrderPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case PayloadKindLedger:
		var p LedgerPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case PayloadKindPayment:
		var p PaymentPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	}
	return nil, shared.NewDomainError("UNKNOWN_PAYLOAD", "Unknown payload kind: "+kind)
}
