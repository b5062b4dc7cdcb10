package repair

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aurora-erp/aurora-seed/internal/dates"
)

// canonicalFolders are the five top-level workspace folders every cleaned
// workspace converges to. Finance documents land in the first one.
var canonicalFolders = []string{
	"Financeiro - Titulos e Comprovantes",
	"Comercial - CRM e Vendas",
	"Compras - Fornecedores",
	"Estoque - Catalogo e Inventario",
	"Administrativo - Contratos",
}

// FinanceDoc is one title selected for a named PDF in the finance folder.
type FinanceDoc struct {
	Number  string
	Entity  string
	DueDate time.Time
}

// RenameTarget builds the canonical PDF name for a finance document.
// Prefix is "AR" for receivables and "AP" for payables.
func RenameTarget(prefix string, doc FinanceDoc) string {
	return fmt.Sprintf("%s_%s_%s_venc-%s.pdf",
		prefix, SanitizeName(doc.Number, 30), SanitizeName(doc.Entity, 34), dates.ISO(doc.DueDate))
}

// RenameTargets lists the target names for the kept files, payables first
// to match the order files are claimed in.
func RenameTargets(apDocs, arDocs []FinanceDoc) []string {
	out := make([]string, 0, len(apDocs)+len(arDocs))
	for _, d := range apDocs {
		out = append(out, RenameTarget("AP", d))
	}
	for _, d := range arDocs {
		out = append(out, RenameTarget("AR", d))
	}
	return out
}

// DriveResult reports one drive cleanup run.
type DriveResult struct {
	MovedFiles    int `json:"moved_files"`
	DeletedFiles  int `json:"deleted_files"`
	ActiveFolders int `json:"active_folders"`
}

type driveFile struct {
	ID   uuid.UUID
	Name string
	Mime string
}

// CleanupDrive converges the oldest active workspace to the canonical
// folder set, renames the top finance PDFs after the largest open titles
// and soft-deletes every other file.
func CleanupDrive(ctx context.Context, tx pgx.Tx, tenantID int64) (*DriveResult, error) {
	var workspaceID uuid.UUID
	var ownerID int64
	err := tx.QueryRow(ctx,
		`SELECT id, COALESCE(owner_id, 1)
		   FROM drive.workspaces
		  WHERE archived_at IS NULL
		  ORDER BY created_at ASC
		  LIMIT 1`).Scan(&workspaceID, &ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return &DriveResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repair: load workspace: %w", err)
	}

	folderIDs, err := ensureFolders(ctx, tx, workspaceID, ownerID)
	if err != nil {
		return nil, err
	}
	financeFolderID := folderIDs[canonicalFolders[0]]

	files, err := loadActiveFiles(ctx, tx, workspaceID)
	if err != nil {
		return nil, err
	}

	apDocs, err := topFinanceDocs(ctx, tx, tenantID,
		`SELECT cp.numero_documento, COALESCE(f.nome_fantasia, 'Fornecedor'), cp.data_vencimento
		   FROM financeiro.contas_pagar cp
		   JOIN entidades.fornecedores f ON f.id = cp.fornecedor_id
		  WHERE cp.tenant_id = $1
		  ORDER BY cp.valor_liquido DESC, cp.id ASC
		  LIMIT 3`)
	if err != nil {
		return nil, err
	}
	arDocs, err := topFinanceDocs(ctx, tx, tenantID,
		`SELECT cr.numero_documento, COALESCE(c.nome_fantasia, 'Cliente'), cr.data_vencimento
		   FROM financeiro.contas_receber cr
		   JOIN entidades.clientes c ON c.id = cr.cliente_id
		  WHERE cr.tenant_id = $1
		  ORDER BY cr.valor_liquido DESC, cr.id ASC
		  LIMIT 3`)
	if err != nil {
		return nil, err
	}

	targets := RenameTargets(apDocs, arDocs)

	var pdfs []driveFile
	for _, f := range files {
		if strings.Contains(strings.ToLower(f.Mime), "pdf") {
			pdfs = append(pdfs, f)
		}
	}
	if len(pdfs) > len(targets) {
		pdfs = pdfs[:len(targets)]
	}

	kept := make(map[uuid.UUID]bool, len(pdfs))
	for i, f := range pdfs {
		if _, err := tx.Exec(ctx,
			`UPDATE drive.files
			    SET folder_id = $1, name = $2, updated_at = now(), deleted_at = NULL
			  WHERE id = $3`,
			financeFolderID, targets[i], f.ID); err != nil {
			return nil, fmt.Errorf("repair: rename file %s: %w", f.ID, err)
		}
		kept[f.ID] = true
	}

	var toDelete []uuid.UUID
	for _, f := range files {
		if !kept[f.ID] {
			toDelete = append(toDelete, f.ID)
		}
	}
	if len(toDelete) > 0 {
		if _, err := tx.Exec(ctx,
			`UPDATE drive.files SET deleted_at = now(), updated_at = now() WHERE id = ANY($1::uuid[])`,
			toDelete); err != nil {
			return nil, fmt.Errorf("repair: soft-delete files: %w", err)
		}
	}

	keepFolders := make([]uuid.UUID, 0, len(folderIDs))
	for _, id := range folderIDs {
		keepFolders = append(keepFolders, id)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE drive.folders
		    SET deleted_at = CASE WHEN id = ANY($2::uuid[]) THEN NULL ELSE now() END,
		        updated_at = now()
		  WHERE workspace_id = $1`,
		workspaceID, keepFolders); err != nil {
		return nil, fmt.Errorf("repair: prune folders: %w", err)
	}

	return &DriveResult{
		MovedFiles:    len(pdfs),
		DeletedFiles:  len(toDelete),
		ActiveFolders: len(keepFolders),
	}, nil
}

func ensureFolders(ctx context.Context, tx pgx.Tx, workspaceID uuid.UUID, ownerID int64) (map[string]uuid.UUID, error) {
	out := make(map[string]uuid.UUID, len(canonicalFolders))
	for _, name := range canonicalFolders {
		var id uuid.UUID
		err := tx.QueryRow(ctx,
			`SELECT id FROM drive.folders
			  WHERE workspace_id = $1 AND parent_id IS NULL AND lower(name) = lower($2)
			  ORDER BY created_at ASC
			  LIMIT 1`, workspaceID, name).Scan(&id)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			if err := tx.QueryRow(ctx,
				`INSERT INTO drive.folders (workspace_id, parent_id, name, created_by)
				 VALUES ($1, NULL, $2, $3) RETURNING id`,
				workspaceID, name, ownerID).Scan(&id); err != nil {
				return nil, fmt.Errorf("repair: create folder %q: %w", name, err)
			}
		case err != nil:
			return nil, fmt.Errorf("repair: find folder %q: %w", name, err)
		default:
			if _, err := tx.Exec(ctx,
				`UPDATE drive.folders SET deleted_at = NULL, updated_at = now() WHERE id = $1`, id); err != nil {
				return nil, fmt.Errorf("repair: restore folder %q: %w", name, err)
			}
		}
		out[name] = id
	}
	return out, nil
}

func loadActiveFiles(ctx context.Context, tx pgx.Tx, workspaceID uuid.UUID) ([]driveFile, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, name, COALESCE(mime, '')
		   FROM drive.files
		  WHERE workspace_id = $1 AND deleted_at IS NULL
		  ORDER BY created_at ASC`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("repair: load files: %w", err)
	}
	defer rows.Close()

	var out []driveFile
	for rows.Next() {
		var f driveFile
		if err := rows.Scan(&f.ID, &f.Name, &f.Mime); err != nil {
			return nil, fmt.Errorf("repair: scan file: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func topFinanceDocs(ctx context.Context, tx pgx.Tx, tenantID int64, query string) ([]FinanceDoc, error) {
	rows, err := tx.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("repair: load finance docs: %w", err)
	}
	defer rows.Close()

	var out []FinanceDoc
	for rows.Next() {
		var d FinanceDoc
		if err := rows.Scan(&d.Number, &d.Entity, &d.DueDate); err != nil {
			return nil, fmt.Errorf("repair: scan finance doc: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
