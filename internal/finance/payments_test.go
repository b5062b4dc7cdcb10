package finance

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aurora-erp/aurora-seed/internal/dates"
	"github.com/aurora-erp/aurora-seed/internal/randgen"
)

func TestPickPaymentDateStaysInSaneRange(t *testing.T) {
	doc := day(2026, time.February, 20)
	due := day(2026, time.February, 25)
	today := day(2026, time.February, 22)

	src := randgen.New(1)
	for i := 0; i < 200; i++ {
		d := PickPaymentDate(src, doc, due, today)
		require.False(t, d.Before(doc), "payment before document date")
		require.False(t, d.After(today), "payment in the future")
	}
}

func TestPickPaymentDateAroundDueDate(t *testing.T) {
	doc := day(2026, time.February, 1)
	due := day(2026, time.February, 20)
	today := day(2026, time.March, 31)

	src := randgen.New(5)
	for i := 0; i < 200; i++ {
		d := PickPaymentDate(src, doc, due, today)
		diff := dates.DaysBetween(d, due)
		require.GreaterOrEqual(t, diff, -3)
		require.LessOrEqual(t, diff, 4)
	}
}

func TestMaterializePaymentsFullSettlement(t *testing.T) {
	items := testOpenItems(20)
	today := day(2026, time.March, 31)
	src := randgen.New(20260331)

	payments, lines := MaterializePayments(src, items, MaterializeConfig{
		TenantID:  1,
		Kind:      KindReceipt,
		Accounts:  []int64{10, 11, 12},
		Methods:   []int64{20, 21, 22, 23, 24},
		Today:     today,
		StartID:   101,
		StartLine: 501,
	})

	require.Len(t, payments, len(items))
	require.Len(t, lines, len(items))

	for i, p := range payments {
		it := items[i]
		require.Equal(t, int64(101+i), p.ID)
		require.Equal(t, it.NetValue, p.Amount)
		require.Equal(t, PaymentStatusConfirmed, p.Status)
		require.Equal(t, fmt.Sprintf("PR-%s-%05d", p.PaidAt.Format("200601"), it.ID), p.Number)

		l := lines[i]
		require.Equal(t, int64(501+i), l.ID)
		require.Equal(t, p.ID, l.PaymentID)
		require.Equal(t, it.ID, l.TargetID)
		require.Equal(t, it.NetValue, l.OriginalAmount)
		require.Equal(t, it.NetValue, l.SettledAmount)
	}
}

func TestMaterializePaymentsRotation(t *testing.T) {
	items := testOpenItems(10)
	today := day(2026, time.March, 31)
	accounts := []int64{10, 11, 12}
	methods := []int64{20, 21, 22, 23, 24}

	receipts, _ := MaterializePayments(randgen.New(4), items, MaterializeConfig{
		TenantID: 1, Kind: KindReceipt, Accounts: accounts, Methods: methods,
		Today: today, StartID: 1, StartLine: 1,
	})
	outgoing, _ := MaterializePayments(randgen.New(4), items, MaterializeConfig{
		TenantID: 1, Kind: KindPayment, Accounts: accounts, Methods: methods,
		Today: today, StartID: 1, StartLine: 1,
	})

	for i := range items {
		require.Equal(t, accounts[i%3], receipts[i].AccountID)
		require.Equal(t, methods[i%5], receipts[i].MethodID)
		require.Equal(t, methods[(i+1)%5], outgoing[i].MethodID)
	}
	require.Contains(t, outgoing[0].Number, "PE-")
}
