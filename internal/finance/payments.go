package finance

import (
	"fmt"
	"time"

	"github.com/aurora-erp/aurora-seed/internal/dates"
	"github.com/aurora-erp/aurora-seed/internal/randgen"
)

// PickPaymentDate draws a settlement date around the due date, between
// three days early and four days late, then clamps it into the sane
// range: never before the document date, never after today.
func PickPaymentDate(src *randgen.Source, docDate, dueDate, today time.Time) time.Time {
	d := dates.AddDays(dueDate, src.IntBetween(-3, 4))
	if d.Before(docDate) {
		d = docDate
	}
	if d.After(today) {
		d = today
	}
	return d
}

// paymentNumber formats the document number for a receipt or payment.
// The sequence part is the settled satellite record's id, which keeps
// numbers stable across repair re-runs.
func paymentNumber(kind PaymentKind, paidAt time.Time, targetID int64) string {
	prefix := "PR"
	if kind == KindPayment {
		prefix = "PE"
	}
	return fmt.Sprintf("%s-%s-%05d", prefix, paidAt.Format("200601"), targetID)
}

// MaterializeConfig carries the shared inputs of one payment build.
type MaterializeConfig struct {
	TenantID  int64
	Kind      PaymentKind
	Accounts  []int64
	Methods   []int64
	Today     time.Time
	StartID   int64
	StartLine int64
}

// MaterializePayments creates one confirmed payment with a single full
// allocation line for every paid item, in input order. Accounts and
// methods rotate round-robin; outgoing payments start one method ahead
// so the two populations do not mirror each other.
func MaterializePayments(src *randgen.Source, items []OpenItem, cfg MaterializeConfig) ([]Payment, []PaymentLine) {
	payments := make([]Payment, 0, len(items))
	lines := make([]PaymentLine, 0, len(items))

	methodOffset := 0
	if cfg.Kind == KindPayment {
		methodOffset = 1
	}
	notePrefix := "Baixa automática de"
	if cfg.Kind == KindPayment {
		notePrefix = "Pagamento automático de"
	}

	for i, it := range items {
		paidAt := PickPaymentDate(src, it.DocumentDate, it.DueDate, cfg.Today)
		p := Payment{
			ID:          cfg.StartID + int64(i),
			TenantID:    cfg.TenantID,
			Number:      paymentNumber(cfg.Kind, paidAt, it.ID),
			PaidAt:      paidAt,
			PostingDate: paidAt,
			AccountID:   cfg.Accounts[i%len(cfg.Accounts)],
			MethodID:    cfg.Methods[(i+methodOffset)%len(cfg.Methods)],
			Amount:      it.NetValue,
			Status:      PaymentStatusConfirmed,
			Note:        fmt.Sprintf("%s %s", notePrefix, it.Number),
		}
		payments = append(payments, p)
		lines = append(lines, PaymentLine{
			ID:             cfg.StartLine + int64(i),
			PaymentID:      p.ID,
			TargetID:       it.ID,
			OriginalAmount: it.NetValue,
			SettledAmount:  it.NetValue,
		})
	}
	return payments, lines
}
