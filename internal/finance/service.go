package finance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aurora-erp/aurora-seed/internal/randgen"
)

// RepositoryPort is the persistence surface the lifecycle service needs.
// Implementations run inside the caller's transaction.
type RepositoryPort interface {
	DeleteReceipts(ctx context.Context, tenantID int64) error
	DeletePaymentsMade(ctx context.Context, tenantID int64) error
	ListReceivables(ctx context.Context, tenantID int64) ([]OpenItem, error)
	ListPayables(ctx context.Context, tenantID int64) ([]OpenItem, error)
	ResetReceivables(ctx context.Context, tenantID int64) error
	ResetPayables(ctx context.Context, tenantID int64) error
	MarkReceivables(ctx context.Context, ids []int64, status string) error
	MarkPayables(ctx context.Context, ids []int64, status string) error
	MarkPayablesPaid(ctx context.Context, ids []int64, accountID int64) error
	InsertReceipts(ctx context.Context, payments []Payment, lines []PaymentLine) error
	InsertPaymentsMade(ctx context.Context, payments []Payment, lines []PaymentLine) error
	NextReceiptIDs(ctx context.Context) (headID, lineID int64, err error)
	NextPaymentIDs(ctx context.Context) (headID, lineID int64, err error)
	ListAccountIDs(ctx context.Context, tenantID int64) ([]int64, error)
	ListMethodIDs(ctx context.Context, tenantID int64) ([]int64, error)
}

// LifecycleConfig bounds one lifecycle repair run.
type LifecycleConfig struct {
	TenantID int64
	Today    time.Time
	AR       Ratios
	AP       Ratios
}

// BucketSizes reports how one population was partitioned.
type BucketSizes struct {
	Canceled int `json:"cancelados"`
	Paid     int `json:"liquidados"`
	Overdue  int `json:"vencidos"`
	Pending  int `json:"pendentes"`
	Total    int `json:"total"`
}

// LifecycleResult summarizes one lifecycle repair run.
type LifecycleResult struct {
	Receivables  BucketSizes `json:"contas_receber"`
	Payables     BucketSizes `json:"contas_pagar"`
	Receipts     int         `json:"pagamentos_recebidos"`
	PaymentsMade int         `json:"pagamentos_efetuados"`
}

// Service rebuilds the settlement state of both finance populations:
// it wipes payments, resets every title to pending, partitions each
// population into lifecycle buckets and materializes one full payment
// per paid title.
type Service struct {
	repo RepositoryPort
	log  *slog.Logger
}

func NewService(repo RepositoryPort, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Run executes the lifecycle repair. Draw order is fixed: receivable
// partition, receivable payments, payable partition, payable payments.
func (s *Service) Run(ctx context.Context, src *randgen.Source, cfg LifecycleConfig) (*LifecycleResult, error) {
	if err := s.repo.DeleteReceipts(ctx, cfg.TenantID); err != nil {
		return nil, fmt.Errorf("delete receipts: %w", err)
	}
	if err := s.repo.DeletePaymentsMade(ctx, cfg.TenantID); err != nil {
		return nil, fmt.Errorf("delete payments made: %w", err)
	}

	accounts, err := s.repo.ListAccountIDs(ctx, cfg.TenantID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	methods, err := s.repo.ListMethodIDs(ctx, cfg.TenantID)
	if err != nil {
		return nil, fmt.Errorf("list methods: %w", err)
	}
	if len(accounts) == 0 || len(methods) == 0 {
		return nil, fmt.Errorf("lifecycle requires financial accounts and payment methods")
	}

	receivables, err := s.repo.ListReceivables(ctx, cfg.TenantID)
	if err != nil {
		return nil, fmt.Errorf("list receivables: %w", err)
	}
	payables, err := s.repo.ListPayables(ctx, cfg.TenantID)
	if err != nil {
		return nil, fmt.Errorf("list payables: %w", err)
	}

	if err := s.repo.ResetReceivables(ctx, cfg.TenantID); err != nil {
		return nil, fmt.Errorf("reset receivables: %w", err)
	}
	if err := s.repo.ResetPayables(ctx, cfg.TenantID); err != nil {
		return nil, fmt.Errorf("reset payables: %w", err)
	}

	arBuckets := ComputeBuckets(src, receivables, cfg.AR, cfg.Today)
	if err := s.repo.MarkReceivables(ctx, ids(arBuckets.Canceled), StatusCanceled); err != nil {
		return nil, fmt.Errorf("mark receivables canceled: %w", err)
	}
	if err := s.repo.MarkReceivables(ctx, ids(arBuckets.Overdue), StatusOverdue); err != nil {
		return nil, fmt.Errorf("mark receivables overdue: %w", err)
	}

	headID, lineID, err := s.repo.NextReceiptIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("next receipt ids: %w", err)
	}
	receipts, receiptLines := MaterializePayments(src, arBuckets.Paid, MaterializeConfig{
		TenantID:  cfg.TenantID,
		Kind:      KindReceipt,
		Accounts:  accounts,
		Methods:   methods,
		Today:     cfg.Today,
		StartID:   headID,
		StartLine: lineID,
	})
	if err := s.repo.InsertReceipts(ctx, receipts, receiptLines); err != nil {
		return nil, fmt.Errorf("insert receipts: %w", err)
	}
	if err := s.repo.MarkReceivables(ctx, ids(arBuckets.Paid), StatusReceived); err != nil {
		return nil, fmt.Errorf("mark receivables received: %w", err)
	}

	apBuckets := ComputeBuckets(src, payables, cfg.AP, cfg.Today)
	if err := s.repo.MarkPayables(ctx, ids(apBuckets.Canceled), StatusCanceled); err != nil {
		return nil, fmt.Errorf("mark payables canceled: %w", err)
	}
	if err := s.repo.MarkPayables(ctx, ids(apBuckets.Overdue), StatusOverdue); err != nil {
		return nil, fmt.Errorf("mark payables overdue: %w", err)
	}

	headID, lineID, err = s.repo.NextPaymentIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("next payment ids: %w", err)
	}
	paymentsMade, paymentLines := MaterializePayments(src, apBuckets.Paid, MaterializeConfig{
		TenantID:  cfg.TenantID,
		Kind:      KindPayment,
		Accounts:  accounts,
		Methods:   methods,
		Today:     cfg.Today,
		StartID:   headID,
		StartLine: lineID,
	})
	if err := s.repo.InsertPaymentsMade(ctx, paymentsMade, paymentLines); err != nil {
		return nil, fmt.Errorf("insert payments made: %w", err)
	}
	for _, byAccount := range groupByAccount(apBuckets.Paid, paymentsMade) {
		if err := s.repo.MarkPayablesPaid(ctx, byAccount.ids, byAccount.accountID); err != nil {
			return nil, fmt.Errorf("mark payables paid: %w", err)
		}
	}

	s.log.Info("finance lifecycle repaired",
		slog.Int("receivables", len(receivables)),
		slog.Int("payables", len(payables)),
		slog.Int("receipts", len(receipts)),
		slog.Int("payments", len(paymentsMade)))

	return &LifecycleResult{
		Receivables:  sizes(arBuckets),
		Payables:     sizes(apBuckets),
		Receipts:     len(receipts),
		PaymentsMade: len(paymentsMade),
	}, nil
}

func ids(items []OpenItem) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func sizes(b Buckets) BucketSizes {
	return BucketSizes{
		Canceled: len(b.Canceled),
		Paid:     len(b.Paid),
		Overdue:  len(b.Overdue),
		Pending:  len(b.Pending),
		Total:    len(b.Canceled) + len(b.Paid) + len(b.Overdue) + len(b.Pending),
	}
}

type accountGroup struct {
	accountID int64
	ids       []int64
}

// groupByAccount pairs each paid payable with the account of its payment
// so the settled title records where the money left from.
func groupByAccount(paid []OpenItem, payments []Payment) []accountGroup {
	byAccount := make(map[int64][]int64)
	var order []int64
	for i, it := range paid {
		acc := payments[i].AccountID
		if _, ok := byAccount[acc]; !ok {
			order = append(order, acc)
		}
		byAccount[acc] = append(byAccount[acc], it.ID)
	}
	out := make([]accountGroup, 0, len(order))
	for _, acc := range order {
		out = append(out, accountGroup{accountID: acc, ids: byAccount[acc]})
	}
	return out
}
