package engine

import (
	"encoding/json"
	"time"

	"github.com/aurora-erp/aurora-seed/internal/repair"
	"github.com/aurora-erp/aurora-seed/internal/sequence"
)

// Summary is the machine-readable report of a regeneration run,
// printed as JSON so operators can diff runs.
type Summary struct {
	OK           bool                         `json:"ok"`
	Period       Period                       `json:"period"`
	Sales        SalesCounts                  `json:"vendas"`
	Purchases    PurchaseCounts               `json:"compras"`
	Finance      FinanceCounts                `json:"financeiro"`
	SequenceSync []sequence.Result            `json:"sequence_sync"`
	Steps        map[string]repair.StepResult `json:"steps,omitempty"`
}

type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (p Period) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}{
		Start: p.Start.Format("2006-01-02"),
		End:   p.End.Format("2006-01-02"),
	})
}

type SalesCounts struct {
	Orders int `json:"pedidos"`
	Lines  int `json:"itens"`
}

type PurchaseCounts struct {
	Orders int `json:"compras"`
	Lines  int `json:"itens"`
}

type FinanceCounts struct {
	Receivables     int `json:"contas_receber"`
	ReceivableLines int `json:"linhas_receber"`
	Payables        int `json:"contas_pagar"`
	PayableLines    int `json:"linhas_pagar"`
}
