package repair

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type bankSeed struct {
	Name   string
	Number string
	Branch string
}

type accountSeed struct {
	Name           string
	Type           string
	Bank           string
	Branch         string
	Number         string
	PixKey         string
	OpeningBalance float64
	CurrentBalance float64
	OpenedAt       string
}

type methodSeed struct {
	Name        string
	Description string
}

var bankSeeds = []bankSeed{
	{Name: "Itaú Unibanco", Number: "341", Branch: "4321"},
	{Name: "Banco do Brasil", Number: "001", Branch: "1204"},
	{Name: "Sicoob", Number: "756", Branch: "3019"},
}

var accountSeeds = []accountSeed{
	{
		Name: "Conta Corrente Operacional", Type: "corrente",
		Bank: "Itaú Unibanco", Branch: "4321", Number: "112233-4",
		PixKey:         "financeiro@aurorasemijoias.com.br",
		OpeningBalance: 185000, CurrentBalance: 212480, OpenedAt: "2024-01-10",
	},
	{
		Name: "Conta Recebimentos PIX", Type: "corrente",
		Bank: "Banco do Brasil", Branch: "1204", Number: "889977-1",
		PixKey:         "pix@aurorasemijoias.com.br",
		OpeningBalance: 85000, CurrentBalance: 96870, OpenedAt: "2024-04-03",
	},
	{
		Name: "Conta Pagamentos Fornecedores", Type: "corrente",
		Bank: "Sicoob", Branch: "3019", Number: "556611-9",
		PixKey:         "pagamentos@aurorasemijoias.com.br",
		OpeningBalance: 62000, CurrentBalance: 54890, OpenedAt: "2024-07-15",
	},
}

var methodSeeds = []methodSeed{
	{Name: "PIX", Description: "Transferência instantânea"},
	{Name: "Boleto", Description: "Cobrança por boleto bancário"},
	{Name: "TED", Description: "Transferência bancária TED"},
	{Name: "Cartão Corporativo", Description: "Despesa em cartão empresarial"},
	{Name: "Transferência Interna", Description: "Movimentação interna entre contas"},
}

// MasterData holds the resolved ids the lifecycle step rotates through.
// Order follows the seed tables, not the database.
type MasterData struct {
	AccountIDs []int64 `json:"account_ids"`
	MethodIDs  []int64 `json:"method_ids"`
}

// EnsureFinanceMasterData upserts banks, financial accounts and payment
// methods, matching existing rows case-insensitively by name so repeated
// runs converge instead of duplicating.
func EnsureFinanceMasterData(ctx context.Context, tx pgx.Tx, tenantID int64) (*MasterData, error) {
	bankByName := make(map[string]int64, len(bankSeeds))
	for _, b := range bankSeeds {
		var id int64
		err := tx.QueryRow(ctx,
			`SELECT id FROM financeiro.bancos WHERE tenant_id = $1 AND lower(nome_banco) = lower($2) LIMIT 1`,
			tenantID, b.Name).Scan(&id)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			if err := tx.QueryRow(ctx,
				`INSERT INTO financeiro.bancos (tenant_id, nome_banco, numero_banco, agencia, criado_em, atualizado_em)
				 VALUES ($1, $2, $3, $4, now(), now()) RETURNING id`,
				tenantID, b.Name, b.Number, b.Branch).Scan(&id); err != nil {
				return nil, fmt.Errorf("repair: create bank %q: %w", b.Name, err)
			}
		case err != nil:
			return nil, fmt.Errorf("repair: find bank %q: %w", b.Name, err)
		}
		bankByName[b.Name] = id
	}

	md := &MasterData{}
	for _, a := range accountSeeds {
		var id int64
		err := tx.QueryRow(ctx,
			`SELECT id FROM financeiro.contas_financeiras WHERE tenant_id = $1 AND lower(nome_conta) = lower($2) LIMIT 1`,
			tenantID, a.Name).Scan(&id)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			if err := tx.QueryRow(ctx,
				`INSERT INTO financeiro.contas_financeiras
				  (tenant_id, banco_id, nome_conta, tipo_conta, agencia, numero_conta, pix_chave, saldo_inicial, saldo_atual, data_abertura, ativo, criado_em, atualizado_em)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, true, now(), now()) RETURNING id`,
				tenantID, bankByName[a.Bank], a.Name, a.Type, a.Branch, a.Number,
				a.PixKey, a.OpeningBalance, a.CurrentBalance, a.OpenedAt).Scan(&id); err != nil {
				return nil, fmt.Errorf("repair: create account %q: %w", a.Name, err)
			}
		case err != nil:
			return nil, fmt.Errorf("repair: find account %q: %w", a.Name, err)
		default:
			if _, err := tx.Exec(ctx,
				`UPDATE financeiro.contas_financeiras
				    SET banco_id = $1, tipo_conta = $2, agencia = $3, numero_conta = $4,
				        pix_chave = $5, saldo_inicial = $6, saldo_atual = $7,
				        data_abertura = $8, ativo = true, atualizado_em = now()
				  WHERE id = $9`,
				bankByName[a.Bank], a.Type, a.Branch, a.Number, a.PixKey,
				a.OpeningBalance, a.CurrentBalance, a.OpenedAt, id); err != nil {
				return nil, fmt.Errorf("repair: update account %q: %w", a.Name, err)
			}
		}
		md.AccountIDs = append(md.AccountIDs, id)
	}

	for _, m := range methodSeeds {
		var id int64
		err := tx.QueryRow(ctx,
			`SELECT id FROM financeiro.metodos_pagamento WHERE tenant_id = $1 AND lower(nome) = lower($2) LIMIT 1`,
			tenantID, m.Name).Scan(&id)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			if err := tx.QueryRow(ctx,
				`INSERT INTO financeiro.metodos_pagamento (tenant_id, nome, descricao, ativo, criado_em, atualizado_em)
				 VALUES ($1, $2, $3, true, now(), now()) RETURNING id`,
				tenantID, m.Name, m.Description).Scan(&id); err != nil {
				return nil, fmt.Errorf("repair: create method %q: %w", m.Name, err)
			}
		case err != nil:
			return nil, fmt.Errorf("repair: find method %q: %w", m.Name, err)
		default:
			if _, err := tx.Exec(ctx,
				`UPDATE financeiro.metodos_pagamento SET descricao = $1, ativo = true, atualizado_em = now() WHERE id = $2`,
				m.Description, id); err != nil {
				return nil, fmt.Errorf("repair: update method %q: %w", m.Name, err)
			}
		}
		md.MethodIDs = append(md.MethodIDs, id)
	}

	return md, nil
}
