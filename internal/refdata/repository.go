package refdata

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// ErrInsufficientRefData is wrapped by every precondition failure, so
// callers can distinguish "fix your database" from storage errors.
var ErrInsufficientRefData = errors.New("refdata: insufficient reference data")

// Minimum pool sizes the builders need. Generating from starved pools
// produces degenerate datasets, so loading fails fast instead.
const (
	minCustomers   = 8
	minSuppliers   = 8
	catalogSample  = 25
	minSalespeople = 3
)

// Repository loads the read-only reference pools.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Load fetches every reference pool. The lookups run concurrently; this
// is safe only because loading completes before the first random draw.
func (r *Repository) Load(ctx context.Context, tenantID int64) (*Pools, error) {
	p := &Pools{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := r.pool.Query(gctx, `
			SELECT id, COALESCE(nome_fantasia, nome_razao, 'Cliente') AS nome
			  FROM entidades.clientes
			 WHERE tenant_id = $1
			 ORDER BY id`, tenantID)
		if err != nil {
			return fmt.Errorf("refdata: load customers: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var c Customer
			if err := rows.Scan(&c.ID, &c.Name); err != nil {
				return err
			}
			p.Customers = append(p.Customers, c)
		}
		return rows.Err()
	})

	g.Go(func() error {
		rows, err := r.pool.Query(gctx, `
			SELECT id, COALESCE(nome_fantasia, 'Fornecedor') AS nome
			  FROM entidades.fornecedores
			 ORDER BY id`)
		if err != nil {
			return fmt.Errorf("refdata: load suppliers: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var s Supplier
			if err := rows.Scan(&s.ID, &s.Name); err != nil {
				return err
			}
			p.Suppliers = append(p.Suppliers, s)
		}
		return rows.Err()
	})

	var products []Product
	g.Go(func() error {
		rows, err := r.pool.Query(gctx, `
			SELECT p.id, p.nome, COALESCE(c.nome, 'Sem categoria') AS categoria
			  FROM produtos.produto p
		 LEFT JOIN produtos.categorias c ON c.id = p.categoria_id
			 WHERE COALESCE(p.ativo, true) = true
			 ORDER BY p.id
			 LIMIT $1`, catalogSample)
		if err != nil {
			return fmt.Errorf("refdata: load products: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var pr Product
			if err := rows.Scan(&pr.ID, &pr.Name, &pr.Category); err != nil {
				return err
			}
			products = append(products, pr)
		}
		return rows.Err()
	})

	g.Go(func() error {
		rows, err := r.pool.Query(gctx, `
			SELECT id, territorio_id
			  FROM comercial.vendedores
			 WHERE tenant_id = $1 AND COALESCE(ativo, true) = true
			 ORDER BY id`, tenantID)
		if err != nil {
			return fmt.Errorf("refdata: load salespeople: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var s Salesperson
			if err := rows.Scan(&s.ID, &s.TerritoryID); err != nil {
				return err
			}
			p.Salespeople = append(p.Salespeople, s)
		}
		return rows.Err()
	})

	g.Go(func() error {
		var err error
		p.Channels, err = r.ids(gctx, `SELECT id FROM vendas.canais_venda ORDER BY id`)
		return err
	})

	g.Go(func() error {
		err := r.pool.QueryRow(gctx, `SELECT id FROM servicos.catalogo_servicos ORDER BY id LIMIT 1`).Scan(&p.ServiceID)
		if err != nil {
			return fmt.Errorf("%w: no rows in servicos.catalogo_servicos", ErrInsufficientRefData)
		}
		return nil
	})

	dims := []struct {
		dst   *[]int64
		query string
	}{
		{&p.Branches, `SELECT id FROM empresa.filiais ORDER BY id`},
		{&p.Departments, `SELECT id FROM empresa.departamentos ORDER BY id`},
		{&p.CostCenters, `SELECT id FROM empresa.centros_custo ORDER BY id`},
		{&p.ProfitCenters, `SELECT id FROM empresa.centros_lucro ORDER BY id`},
		{&p.BusinessUnits, `SELECT id FROM empresa.unidades_negocio ORDER BY id`},
		{&p.RevenueCategories, `SELECT id FROM financeiro.categorias_receita ORDER BY id`},
		{&p.ExpenseCategories, `SELECT id FROM financeiro.categorias_despesa ORDER BY id`},
	}
	for _, d := range dims {
		d := d
		g.Go(func() error {
			var err error
			*d.dst, err = r.ids(gctx, d.query)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := checkPreconditions(p, products); err != nil {
		return nil, err
	}
	// Classification and pricing happen later, once the caller owns the
	// random source; keep the raw sample on the pools until then.
	p.Catalog = make([]CatalogItem, 0, len(products))
	for _, pr := range products {
		p.Catalog = append(p.Catalog, CatalogItem{Product: pr})
	}
	return p, nil
}

func (r *Repository) ids(ctx context.Context, query string) ([]int64, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("refdata: %w", err)
	}
	defer rows.Close()
	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Raw products in catalog order, for PrepareCatalog.
func (p *Pools) RawProducts() []Product {
	out := make([]Product, 0, len(p.Catalog))
	for _, it := range p.Catalog {
		out = append(out, it.Product)
	}
	return out
}

func checkPreconditions(p *Pools, products []Product) error {
	switch {
	case len(p.Customers) < minCustomers:
		return fmt.Errorf("%w: %d customers, need at least %d", ErrInsufficientRefData, len(p.Customers), minCustomers)
	case len(p.Suppliers) < minSuppliers:
		return fmt.Errorf("%w: %d suppliers, need at least %d", ErrInsufficientRefData, len(p.Suppliers), minSuppliers)
	case len(products) < catalogSample:
		return fmt.Errorf("%w: %d active products, need %d in produtos.produto", ErrInsufficientRefData, len(products), catalogSample)
	case len(p.Salespeople) < minSalespeople:
		return fmt.Errorf("%w: %d salespeople, need at least %d", ErrInsufficientRefData, len(p.Salespeople), minSalespeople)
	case len(p.Channels) == 0:
		return fmt.Errorf("%w: no sales channels", ErrInsufficientRefData)
	case len(p.Branches) == 0 || len(p.Departments) == 0 || len(p.CostCenters) == 0 || len(p.ProfitCenters) == 0 || len(p.BusinessUnits) == 0:
		return fmt.Errorf("%w: empty company dimension (branches/departments/centers/units)", ErrInsufficientRefData)
	case len(p.RevenueCategories) == 0 || len(p.ExpenseCategories) == 0:
		return fmt.Errorf("%w: missing finance categories", ErrInsufficientRefData)
	}
	return nil
}
