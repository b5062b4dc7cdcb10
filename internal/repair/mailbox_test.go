package repair

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aurora-erp/aurora-seed/internal/randgen"
)

func testToday() time.Time {
	return day(2026, time.March, 31)
}

func TestMessageBuilderIDsAndClock(t *testing.T) {
	b := NewMessageBuilder(randgen.New(2026021701), testToday())
	for i := 0; i < 12; i++ {
		b.AddStockAlert(StockMailRow{ProductName: fmt.Sprintf("Produto %02d", i), Balance: 10})
	}

	msgs := b.Messages()
	require.Len(t, msgs, 12)
	for i, m := range msgs {
		require.Equal(t, fmt.Sprintf("msg-%04d", i+1), m.ID)
		require.False(t, m.CreatedAt.After(testToday().Add(24*time.Hour)))
		require.GreaterOrEqual(t, m.CreatedAt.Hour(), 8)
		require.LessOrEqual(t, m.CreatedAt.Hour(), 17)
		if i > 0 {
			require.False(t, m.CreatedAt.Before(msgs[i-1].CreatedAt.Truncate(24*time.Hour)))
		}
	}
	// The clock starts twenty days back and advances every third message.
	require.Equal(t, testToday().AddDate(0, 0, -20).Day(), msgs[0].CreatedAt.Day())
}

func TestReceivableThreadVariants(t *testing.T) {
	b := NewMessageBuilder(randgen.New(1), testToday())

	b.AddReceivableThread(ARMailRow{
		Number: "PV-2026-000001", Status: "pendente",
		DueDate: day(2026, time.March, 10), NetValue: 1530.55,
		CustomerName: "Joalheria Central", CustomerEmail: "fin@joalheria.com",
	})
	b.AddReceivableThread(ARMailRow{
		Number: "PV-2026-000002", Status: "vencido",
		DueDate: day(2026, time.February, 20), NetValue: 820,
		CustomerName: "Ouro Norte",
	})
	b.AddReceivableThread(ARMailRow{
		Number: "PV-2026-000003", Status: "recebido",
		DueDate: day(2026, time.March, 5), NetValue: 410.10,
		CustomerName: "Prata Sul", CustomerEmail: "contato@pratasul.com",
	})

	msgs := b.Messages()
	// pendente yields one message, vencido and recebido two each.
	require.Len(t, msgs, 5)

	require.Equal(t, "Título PV-2026-000001 - Joalheria Central", msgs[0].Subject)
	require.Contains(t, msgs[0].TextBody, "R$ 1530.55")
	require.True(t, msgs[0].Unread)
	require.Contains(t, msgs[0].Labels, "pendente")

	require.Equal(t, "thr-ar-PV-2026-000002", msgs[1].ThreadID)
	require.Equal(t, msgs[1].ThreadID, msgs[2].ThreadID)
	require.Contains(t, msgs[2].Subject, "Follow-up cobrança")
	require.True(t, msgs[2].Sent)
	require.False(t, msgs[2].Unread)

	require.Contains(t, msgs[4].Subject, "Comprovante recebido")
	require.False(t, msgs[3].Unread)
}

func TestPayableThreadSettledVariant(t *testing.T) {
	b := NewMessageBuilder(randgen.New(2), testToday())
	b.AddPayableThread(APMailRow{
		Number: "OC-2026-0004", Status: "pago",
		DueDate: day(2026, time.March, 1), NetValue: 9200.40,
		SupplierName: "Metais Brasil", SupplierEmail: "cobranca@metais.com",
	})

	msgs := b.Messages()
	require.Len(t, msgs, 2)
	require.Equal(t, "ibx-compras", msgs[0].InboxID)
	require.False(t, msgs[0].Unread)
	require.Contains(t, msgs[1].Subject, "Comprovante de pagamento OC-2026-0004")
	require.Equal(t, "financeiro@aurorasemijoias.com.br", msgs[1].FromEmail)
}

func TestDealThreadHasReply(t *testing.T) {
	b := NewMessageBuilder(randgen.New(3), testToday())
	b.AddDealThread(DealMailRow{
		Name: "Expansão Rede Sul", Status: "Negociacao",
		EstimatedValue: 125000,
		ContactName:    "Marina Lopes", ContactEmail: "marina@redesul.com",
		AccountName: "Rede Sul Acessorios",
	})

	msgs := b.Messages()
	require.Len(t, msgs, 2)
	require.True(t, msgs[0].Sent)
	require.Contains(t, msgs[0].TextBody, "125.000")
	require.Contains(t, msgs[0].Labels, "negociacao")
	require.Equal(t, "RE: Expansão Rede Sul", msgs[1].Subject)
	require.True(t, msgs[1].Unread)
	require.Equal(t, msgs[0].ThreadID, msgs[1].ThreadID)
}

func TestStockAlertCriticality(t *testing.T) {
	b := NewMessageBuilder(randgen.New(4), testToday())
	b.AddStockAlert(StockMailRow{ProductName: "Anel Solitário", Balance: 12})
	b.AddStockAlert(StockMailRow{ProductName: "Colar Choker", Balance: 30})
	b.AddStockAlert(StockMailRow{ProductName: "Brinco Argola", Balance: 80})

	msgs := b.Messages()
	require.Contains(t, msgs[0].TextBody, "Criticidade alto")
	require.Contains(t, msgs[0].Labels, "updates")
	require.True(t, msgs[0].Unread)

	require.Contains(t, msgs[1].TextBody, "Criticidade medio")
	require.Contains(t, msgs[1].Labels, "forums")
	require.True(t, msgs[1].Unread)

	require.Contains(t, msgs[2].TextBody, "Criticidade baixo")
	require.False(t, msgs[2].Unread)
}

func TestSnippetTruncation(t *testing.T) {
	b := NewMessageBuilder(randgen.New(5), testToday())
	b.AddDealThread(DealMailRow{
		Name:        "Proposta com nome excepcionalmente longo para validar o corte do resumo em cento e oitenta caracteres no corpo da mensagem gerada pelo fluxo comercial da Aurora Semijoias LTDA",
		ContactName: "Contato", AccountName: "Conta", EstimatedValue: 1000,
	})

	for _, m := range b.Messages() {
		require.LessOrEqual(t, len([]rune(m.Snippet)), 180)
	}
}
