package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, uint32(20260331), cfg.Seed)
	require.Equal(t, int64(1), cfg.TenantID)
	require.Equal(t, 220, cfg.SalesCount)
	require.Equal(t, 40, cfg.PurchaseCount)
	require.Equal(t, 0.38, cfg.ARPaidRatio)
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigRejectsRatioOutOfRange(t *testing.T) {
	t.Setenv("AR_PAID_RATIO", "1.5")
	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigRejectsReversedWindow(t *testing.T) {
	t.Setenv("DATE_START", "2026-03-31")
	t.Setenv("DATE_END", "2026-02-01")
	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigRejectsMalformedDate(t *testing.T) {
	t.Setenv("TODAY", "31/03/2026")
	_, err := LoadConfig()
	require.Error(t, err)
}
