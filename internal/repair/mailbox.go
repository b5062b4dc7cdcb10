package repair

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/text/language"
	xmessage "golang.org/x/text/message"

	"github.com/aurora-erp/aurora-seed/internal/dates"
	"github.com/aurora-erp/aurora-seed/internal/randgen"
)

const mailDomain = "aurorasemijoias.com.br"

// Inbox is one synthetic departmental mailbox.
type Inbox struct {
	ID          string
	Username    string
	DisplayName string
}

// DefaultInboxes are the four departmental mailboxes every seeded
// environment carries.
var DefaultInboxes = []Inbox{
	{ID: "ibx-financeiro", Username: "financeiro", DisplayName: "Financeiro"},
	{ID: "ibx-compras", Username: "compras", DisplayName: "Compras"},
	{ID: "ibx-comercial", Username: "comercial", DisplayName: "Comercial"},
	{ID: "ibx-operacoes", Username: "operacoes", DisplayName: "Operações"},
}

// Address renders the inbox's full email address.
func (i Inbox) Address() string { return i.Username + "@" + mailDomain }

// Recipient is one entry of a message's recipient list.
type Recipient struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// Message is one synthetic mailbox message.
type Message struct {
	ID        string
	InboxID   string
	ThreadID  string
	Subject   string
	Snippet   string
	TextBody  string
	FromName  string
	FromEmail string
	To        []Recipient
	Labels    []string
	Unread    bool
	Sent      bool
	CreatedAt time.Time
}

// ARMailRow feeds one receivable correlation message.
type ARMailRow struct {
	Number        string
	Status        string
	DueDate       time.Time
	NetValue      float64
	CustomerName  string
	CustomerEmail string
}

// APMailRow feeds one payable correlation message.
type APMailRow struct {
	Number        string
	Status        string
	DueDate       time.Time
	NetValue      float64
	SupplierName  string
	SupplierEmail string
}

// DealMailRow feeds one CRM opportunity thread.
type DealMailRow struct {
	Name           string
	Status         string
	EstimatedValue float64
	ContactName    string
	ContactEmail   string
	AccountName    string
}

// StockMailRow feeds one low-stock alert.
type StockMailRow struct {
	ProductName string
	Balance     int
}

var ptBR = xmessage.NewPrinter(language.BrazilianPortuguese)

// MessageBuilder accumulates messages with drifting business-hour
// timestamps. The clock starts twenty days back and never passes today.
type MessageBuilder struct {
	src       *randgen.Source
	today     time.Time
	cursorDay int
	messages  []Message
}

func NewMessageBuilder(src *randgen.Source, today time.Time) *MessageBuilder {
	return &MessageBuilder{src: src, today: today, cursorDay: -20}
}

func (b *MessageBuilder) nextTimestamp() time.Time {
	day := dates.AddDays(b.today, b.cursorDay)
	if day.After(b.today) {
		day = b.today
	}
	hour := 8 + (len(b.messages)*5)%10
	minute := int(b.src.Float64() * 60)
	if len(b.messages)%3 == 0 {
		b.cursorDay++
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}

func (b *MessageBuilder) add(m Message) {
	m.ID = fmt.Sprintf("msg-%04d", len(b.messages)+1)
	if m.ThreadID == "" {
		m.ThreadID = "thr-" + m.ID
	}
	if m.Subject == "" {
		m.Subject = "Sem assunto"
	}
	snippet := m.TextBody
	if snippet == "" {
		snippet = m.Subject
	}
	if r := []rune(snippet); len(r) > 180 {
		snippet = string(r[:180])
	}
	m.Snippet = snippet
	m.CreatedAt = b.nextTimestamp()
	b.messages = append(b.messages, m)
}

// Messages returns everything built so far, in order.
func (b *MessageBuilder) Messages() []Message { return b.messages }

// AddReceivableThread writes the customer's billing question and, for
// settled or overdue titles, the matching follow-up from finance.
func (b *MessageBuilder) AddReceivableThread(row ARMailRow) {
	name := orDefault(row.CustomerName, "Cliente")
	email := orDefault(strings.TrimSpace(row.CustomerEmail), "financeiro.cliente@empresa.com")
	due := dates.ISO(row.DueDate)
	status := strings.ToLower(row.Status)
	thread := "thr-ar-" + SanitizeName(row.Number, 32)

	b.add(Message{
		InboxID:   "ibx-financeiro",
		ThreadID:  thread,
		Subject:   fmt.Sprintf("Título %s - %s", row.Number, name),
		TextBody:  fmt.Sprintf("Olá, time financeiro. Confirmam o envio do boleto do título %s? Valor R$ %.2f com vencimento em %s.", row.Number, row.NetValue, due),
		FromName:  name,
		FromEmail: email,
		To:        []Recipient{{Name: "Financeiro Aurora", Email: "financeiro@" + mailDomain}},
		Labels:    []string{"inbox", "updates", "financeiro", status},
		Unread:    status != "recebido",
	})

	switch status {
	case "vencido":
		b.add(Message{
			InboxID:   "ibx-financeiro",
			ThreadID:  thread,
			Subject:   fmt.Sprintf("Follow-up cobrança %s", row.Number),
			TextBody:  fmt.Sprintf("Prezados, segue reforço da cobrança do documento %s. Favor programar quitação hoje para evitar bloqueio de novos pedidos.", row.Number),
			FromName:  "Financeiro Aurora",
			FromEmail: "financeiro@" + mailDomain,
			To:        []Recipient{{Name: name, Email: email}},
			Labels:    []string{"sent", "financeiro", "cobranca"},
			Sent:      true,
		})
	case "recebido":
		b.add(Message{
			InboxID:   "ibx-financeiro",
			ThreadID:  thread,
			Subject:   fmt.Sprintf("Comprovante recebido %s", row.Number),
			TextBody:  fmt.Sprintf("Recebimento identificado para %s. Valor conciliado e título baixado em sistema.", row.Number),
			FromName:  "Financeiro Aurora",
			FromEmail: "financeiro@" + mailDomain,
			To:        []Recipient{{Name: name, Email: email}},
			Labels:    []string{"sent", "financeiro", "conciliado"},
			Sent:      true,
		})
	}
}

// AddPayableThread writes the supplier's invoice notice and, for settled
// titles, the payment confirmation.
func (b *MessageBuilder) AddPayableThread(row APMailRow) {
	name := orDefault(row.SupplierName, "Fornecedor")
	email := orDefault(strings.TrimSpace(row.SupplierEmail), "financeiro@fornecedor.com")
	due := dates.ISO(row.DueDate)
	status := strings.ToLower(row.Status)
	thread := "thr-ap-" + SanitizeName(row.Number, 32)

	b.add(Message{
		InboxID:   "ibx-compras",
		ThreadID:  thread,
		Subject:   fmt.Sprintf("Fatura %s - %s", row.Number, name),
		TextBody:  fmt.Sprintf("Bom dia. Enviamos a fatura %s no valor de R$ %.2f, vencimento %s. Favor confirmar programação de pagamento.", row.Number, row.NetValue, due),
		FromName:  name,
		FromEmail: email,
		To:        []Recipient{{Name: "Compras Aurora", Email: "compras@" + mailDomain}},
		Labels:    []string{"inbox", "updates", "fornecedor", status},
		Unread:    status != "pago",
	})

	if status == "pago" {
		b.add(Message{
			InboxID:   "ibx-compras",
			ThreadID:  thread,
			Subject:   fmt.Sprintf("Comprovante de pagamento %s", row.Number),
			TextBody:  fmt.Sprintf("Pagamento do documento %s concluído. Valor de R$ %.2f liquidado e comprovante enviado ao fornecedor.", row.Number, row.NetValue),
			FromName:  "Financeiro Aurora",
			FromEmail: "financeiro@" + mailDomain,
			To:        []Recipient{{Name: name, Email: email}},
			Labels:    []string{"sent", "financeiro", "pagamento"},
			Sent:      true,
		})
	}
}

// AddDealThread writes the outbound proposal and the contact's reply for
// one CRM opportunity.
func (b *MessageBuilder) AddDealThread(row DealMailRow) {
	contact := orDefault(row.ContactName, "Contato")
	email := orDefault(strings.TrimSpace(row.ContactEmail), "contato@empresa.com")
	account := orDefault(row.AccountName, "Conta")
	value := ptBR.Sprintf("%.0f", row.EstimatedValue)
	thread := "thr-opp-" + SanitizeName(row.Name, 28)

	b.add(Message{
		InboxID:   "ibx-comercial",
		ThreadID:  thread,
		Subject:   fmt.Sprintf("Próximos passos - %s", row.Name),
		TextBody:  fmt.Sprintf("Olá, %s. Segue proposta atualizada para %s, com escopo revisado e estimativa de R$ %s. Podemos fechar agenda de validação comercial amanhã?", contact, account, value),
		FromName:  "Comercial Aurora",
		FromEmail: "comercial@" + mailDomain,
		To:        []Recipient{{Name: contact, Email: email}},
		Labels:    []string{"sent", "crm", strings.ToLower(orDefault(row.Status, "aberta"))},
		Sent:      true,
	})

	b.add(Message{
		InboxID:   "ibx-comercial",
		ThreadID:  thread,
		Subject:   fmt.Sprintf("RE: %s", row.Name),
		TextBody:  "Recebido. Podemos avançar com o cronograma e SLA, mantendo início na próxima semana?",
		FromName:  contact,
		FromEmail: email,
		To:        []Recipient{{Name: "Comercial Aurora", Email: "comercial@" + mailDomain}},
		Labels:    []string{"inbox", "crm", "updates"},
		Unread:    true,
	})
}

// AddStockAlert writes one WMS low-stock alert. Criticality drives the
// label and read state.
func (b *MessageBuilder) AddStockAlert(row StockMailRow) {
	product := orDefault(row.ProductName, "Produto")
	criticality := "baixo"
	switch {
	case row.Balance <= 24:
		criticality = "alto"
	case row.Balance <= 45:
		criticality = "medio"
	}
	label := "forums"
	if criticality == "alto" {
		label = "updates"
	}

	b.add(Message{
		InboxID:   "ibx-operacoes",
		ThreadID:  "thr-stock-" + SanitizeName(product, 28),
		Subject:   fmt.Sprintf("Alerta de estoque %s", product),
		TextBody:  fmt.Sprintf("Produto %s com saldo consolidado de %d unidades. Criticidade %s. Recomendar reposição e ajuste de ponto de pedido.", product, row.Balance, criticality),
		FromName:  "WMS Bot",
		FromEmail: "wms@" + mailDomain,
		To:        []Recipient{{Name: "Operações Aurora", Email: "operacoes@" + mailDomain}},
		Labels:    []string{"inbox", "estoque", label},
		Unread:    criticality != "baixo",
	})
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// MailboxResult reports one mailbox seeding run.
type MailboxResult struct {
	Inboxes  int `json:"inboxes"`
	Messages int `json:"messages"`
}

// SeedMailbox bootstraps the email schema, recreates the four inboxes
// and regenerates every correlated message from the live dataset.
func SeedMailbox(ctx context.Context, tx pgx.Tx, src *randgen.Source, tenantID int64, today time.Time) (*MailboxResult, error) {
	if err := ensureEmailSchema(ctx, tx); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM email.messages`); err != nil {
		return nil, fmt.Errorf("repair: clear messages: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM email.inboxes`); err != nil {
		return nil, fmt.Errorf("repair: clear inboxes: %w", err)
	}

	for _, ib := range DefaultInboxes {
		if _, err := tx.Exec(ctx,
			`INSERT INTO email.inboxes (id, username, domain, email, display_name, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, now(), now())`,
			ib.ID, ib.Username, mailDomain, ib.Address(), ib.DisplayName); err != nil {
			return nil, fmt.Errorf("repair: insert inbox %s: %w", ib.ID, err)
		}
	}

	b := NewMessageBuilder(src, today)

	arRows, err := loadARMailRows(ctx, tx, tenantID)
	if err != nil {
		return nil, err
	}
	for _, row := range arRows {
		b.AddReceivableThread(row)
	}

	apRows, err := loadAPMailRows(ctx, tx, tenantID)
	if err != nil {
		return nil, err
	}
	for _, row := range apRows {
		b.AddPayableThread(row)
	}

	dealRows, err := loadDealMailRows(ctx, tx, tenantID)
	if err != nil {
		return nil, err
	}
	for _, row := range dealRows {
		b.AddDealThread(row)
	}

	stockRows, err := loadStockMailRows(ctx, tx)
	if err != nil {
		return nil, err
	}
	for _, row := range stockRows {
		b.AddStockAlert(row)
	}

	if err := insertMessages(ctx, tx, b.Messages()); err != nil {
		return nil, err
	}
	return &MailboxResult{Inboxes: len(DefaultInboxes), Messages: len(b.Messages())}, nil
}

func ensureEmailSchema(ctx context.Context, tx pgx.Tx) error {
	stmts := []string{
		`CREATE SCHEMA IF NOT EXISTS email`,
		`CREATE TABLE IF NOT EXISTS email.inboxes (
			id text PRIMARY KEY,
			username text NOT NULL,
			domain text NOT NULL DEFAULT 'aurorasemijoias.com.br',
			email text NOT NULL,
			display_name text NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now(),
			archived_at timestamptz NULL
		)`,
		`CREATE TABLE IF NOT EXISTS email.messages (
			id text PRIMARY KEY,
			inbox_id text NOT NULL REFERENCES email.inboxes(id) ON DELETE CASCADE,
			thread_id text NULL,
			subject text NOT NULL,
			snippet text NOT NULL,
			text_body text NULL,
			html_body text NULL,
			from_name text NULL,
			from_email text NULL,
			to_recipients jsonb NOT NULL DEFAULT '[]'::jsonb,
			cc_recipients jsonb NOT NULL DEFAULT '[]'::jsonb,
			bcc_recipients jsonb NOT NULL DEFAULT '[]'::jsonb,
			labels jsonb NOT NULL DEFAULT '[]'::jsonb,
			attachments jsonb NOT NULL DEFAULT '[]'::jsonb,
			unread boolean NOT NULL DEFAULT true,
			draft boolean NOT NULL DEFAULT false,
			sent boolean NOT NULL DEFAULT false,
			junk boolean NOT NULL DEFAULT false,
			trashed boolean NOT NULL DEFAULT false,
			archived boolean NOT NULL DEFAULT false,
			created_at timestamptz NOT NULL DEFAULT now(),
			updated_at timestamptz NOT NULL DEFAULT now(),
			deleted_at timestamptz NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_email_messages_inbox_created ON email.messages (inbox_id, created_at DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("repair: ensure email schema: %w", err)
		}
	}
	return nil
}

func insertMessages(ctx context.Context, tx pgx.Tx, messages []Message) error {
	batch := &pgx.Batch{}
	empty := []byte(`[]`)
	for _, m := range messages {
		to, err := json.Marshal(m.To)
		if err != nil {
			return fmt.Errorf("repair: marshal recipients: %w", err)
		}
		labels, err := json.Marshal(m.Labels)
		if err != nil {
			return fmt.Errorf("repair: marshal labels: %w", err)
		}
		batch.Queue(
			`INSERT INTO email.messages
			  (id, inbox_id, thread_id, subject, snippet, text_body, html_body, from_name, from_email,
			   to_recipients, cc_recipients, bcc_recipients, labels, attachments,
			   unread, draft, sent, junk, trashed, archived, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, NULL, $7, $8, $9::jsonb, $10::jsonb, $11::jsonb, $12::jsonb, $13::jsonb,
			   $14, false, $15, false, false, false, $16, now())`,
			m.ID, m.InboxID, m.ThreadID, m.Subject, m.Snippet, m.TextBody, m.FromName, m.FromEmail,
			to, empty, empty, labels, empty,
			m.Unread, m.Sent, m.CreatedAt)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("repair: insert messages: %w", err)
	}
	return nil
}

func loadARMailRows(ctx context.Context, tx pgx.Tx, tenantID int64) ([]ARMailRow, error) {
	rows, err := tx.Query(ctx,
		`SELECT cr.numero_documento, cr.status, cr.data_vencimento, cr.valor_liquido,
		        COALESCE(c.nome_fantasia, 'Cliente'), COALESCE(c.email, '')
		   FROM financeiro.contas_receber cr
		   JOIN entidades.clientes c ON c.id = cr.cliente_id
		  WHERE cr.tenant_id = $1
		  ORDER BY cr.data_vencimento ASC, cr.id ASC
		  LIMIT 16`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("repair: load receivable mail rows: %w", err)
	}
	defer rows.Close()

	var out []ARMailRow
	for rows.Next() {
		var r ARMailRow
		if err := rows.Scan(&r.Number, &r.Status, &r.DueDate, &r.NetValue, &r.CustomerName, &r.CustomerEmail); err != nil {
			return nil, fmt.Errorf("repair: scan receivable mail row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func loadAPMailRows(ctx context.Context, tx pgx.Tx, tenantID int64) ([]APMailRow, error) {
	rows, err := tx.Query(ctx,
		`SELECT cp.numero_documento, cp.status, cp.data_vencimento, cp.valor_liquido,
		        COALESCE(f.nome_fantasia, 'Fornecedor'), COALESCE(f.email, '')
		   FROM financeiro.contas_pagar cp
		   JOIN entidades.fornecedores f ON f.id = cp.fornecedor_id
		  WHERE cp.tenant_id = $1
		  ORDER BY cp.data_vencimento ASC, cp.id ASC
		  LIMIT 14`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("repair: load payable mail rows: %w", err)
	}
	defer rows.Close()

	var out []APMailRow
	for rows.Next() {
		var r APMailRow
		if err := rows.Scan(&r.Number, &r.Status, &r.DueDate, &r.NetValue, &r.SupplierName, &r.SupplierEmail); err != nil {
			return nil, fmt.Errorf("repair: scan payable mail row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func loadDealMailRows(ctx context.Context, tx pgx.Tx, tenantID int64) ([]DealMailRow, error) {
	rows, err := tx.Query(ctx,
		`SELECT o.nome, COALESCE(o.status, 'aberta'), COALESCE(o.valor_estimado, 0),
		        COALESCE(ct.nome, l.nome, c.nome, 'Lead'),
		        COALESCE(ct.email, l.email, 'contato@cliente.com'),
		        COALESCE(c.nome, l.empresa, 'Conta')
		   FROM crm.oportunidades o
		   LEFT JOIN crm.leads l ON l.id = o.lead_id
		   LEFT JOIN crm.contas c ON c.id = o.conta_id
		   LEFT JOIN crm.contatos ct ON ct.id = l.contato_id
		  WHERE o.tenant_id = $1
		  ORDER BY o.atualizado_em DESC, o.id DESC
		  LIMIT 14`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("repair: load deal mail rows: %w", err)
	}
	defer rows.Close()

	var out []DealMailRow
	for rows.Next() {
		var r DealMailRow
		if err := rows.Scan(&r.Name, &r.Status, &r.EstimatedValue, &r.ContactName, &r.ContactEmail, &r.AccountName); err != nil {
			return nil, fmt.Errorf("repair: scan deal mail row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func loadStockMailRows(ctx context.Context, tx pgx.Tx) ([]StockMailRow, error) {
	rows, err := tx.Query(ctx,
		`SELECT p.nome, COALESCE(SUM(e.quantidade), 0)::int
		   FROM estoque.estoques_atual e
		   JOIN produtos.produto p ON p.id = e.produto_id
		  GROUP BY p.id, p.nome
		  ORDER BY 2 ASC, p.nome ASC
		  LIMIT 8`)
	if err != nil {
		return nil, fmt.Errorf("repair: load stock mail rows: %w", err)
	}
	defer rows.Close()

	var out []StockMailRow
	for rows.Next() {
		var r StockMailRow
		if err := rows.Scan(&r.ProductName, &r.Balance); err != nil {
			return nil, fmt.Errorf("repair: scan stock mail row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
