package repair

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// OrphanActivity is a CRM activity with no link to any lead, opportunity,
// account or contact.
type OrphanActivity struct {
	ID          int64
	Responsible int64
}

// Opportunity is the slice of crm.oportunidades the planner needs.
type Opportunity struct {
	ID        int64
	SellerID  int64
	LeadID    int64
	AccountID int64
}

// Lead is the slice of crm.leads the planner needs.
type Lead struct {
	ID          int64
	Responsible int64
	AccountID   int64
	ContactID   int64
}

// Contact pairs a CRM contact with its account.
type Contact struct {
	ID        int64
	AccountID int64
}

// ActivityLink is the relink decision for one orphan activity. Zero ids
// mean the column keeps its current value (the update uses COALESCE).
type ActivityLink struct {
	ActivityID    int64
	OpportunityID int64
	LeadID        int64
	AccountID     int64
	ContactID     int64
}

// PlanOrphanLinks assigns each orphan to an opportunity owned by the same
// responsible, rotating by orphan position so one seller's activities
// spread over their pipeline. When the responsible owns nothing, any
// opportunity or lead serves as fallback. Lead, account and contact
// follow from the chosen opportunity where possible.
func PlanOrphanLinks(orphans []OrphanActivity, opps []Opportunity, leads []Lead, contacts []Contact) []ActivityLink {
	oppByResp := make(map[int64][]Opportunity)
	for _, o := range opps {
		oppByResp[o.SellerID] = append(oppByResp[o.SellerID], o)
	}
	leadByResp := make(map[int64][]Lead)
	leadByID := make(map[int64]Lead, len(leads))
	for _, l := range leads {
		leadByResp[l.Responsible] = append(leadByResp[l.Responsible], l)
		leadByID[l.ID] = l
	}
	contactsByAccount := make(map[int64][]int64)
	for _, c := range contacts {
		contactsByAccount[c.AccountID] = append(contactsByAccount[c.AccountID], c.ID)
	}

	links := make([]ActivityLink, 0, len(orphans))
	for i, act := range orphans {
		var opp *Opportunity
		if list := oppByResp[act.Responsible]; len(list) > 0 {
			opp = &list[i%len(list)]
		} else if len(opps) > 0 {
			opp = &opps[i%len(opps)]
		}

		var lead *Lead
		if opp != nil && opp.LeadID != 0 {
			if l, ok := leadByID[opp.LeadID]; ok {
				lead = &l
			}
		}
		if lead == nil {
			if list := leadByResp[act.Responsible]; len(list) > 0 {
				lead = &list[i%len(list)]
			} else if len(leads) > 0 {
				lead = &leads[i%len(leads)]
			}
		}

		link := ActivityLink{ActivityID: act.ID}
		if opp != nil {
			link.OpportunityID = opp.ID
			link.LeadID = opp.LeadID
			link.AccountID = opp.AccountID
		}
		if lead != nil {
			if link.LeadID == 0 {
				link.LeadID = lead.ID
			}
			if link.AccountID == 0 {
				link.AccountID = lead.AccountID
			}
			link.ContactID = lead.ContactID
		}
		if link.ContactID == 0 && link.AccountID != 0 {
			if list := contactsByAccount[link.AccountID]; len(list) > 0 {
				link.ContactID = list[i%len(list)]
			}
		}
		links = append(links, link)
	}
	return links
}

// CRMResult reports one orphan repair run.
type CRMResult struct {
	Total  int `json:"total"`
	Linked int `json:"linked"`
}

// FixCRMOrphans relinks every orphan activity. Columns already set on an
// activity are left alone; only the missing links are backfilled.
func FixCRMOrphans(ctx context.Context, tx pgx.Tx, tenantID int64) (*CRMResult, error) {
	orphans, err := loadOrphans(ctx, tx, tenantID)
	if err != nil {
		return nil, err
	}
	if len(orphans) == 0 {
		return &CRMResult{}, nil
	}

	opps, err := loadOpportunities(ctx, tx, tenantID)
	if err != nil {
		return nil, err
	}
	leads, err := loadLeads(ctx, tx, tenantID)
	if err != nil {
		return nil, err
	}
	contacts, err := loadContacts(ctx, tx, tenantID)
	if err != nil {
		return nil, err
	}

	links := PlanOrphanLinks(orphans, opps, leads, contacts)
	batch := &pgx.Batch{}
	for _, link := range links {
		batch.Queue(
			`UPDATE crm.atividades
			    SET oportunidade_id = COALESCE($1, oportunidade_id),
			        lead_id = COALESCE($2, lead_id),
			        conta_id = COALESCE($3, conta_id),
			        contato_id = COALESCE($4, contato_id),
			        atualizado_em = now()
			  WHERE id = $5`,
			nullable(link.OpportunityID), nullable(link.LeadID),
			nullable(link.AccountID), nullable(link.ContactID), link.ActivityID)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, fmt.Errorf("repair: relink activities: %w", err)
	}
	return &CRMResult{Total: len(orphans), Linked: len(links)}, nil
}

func nullable(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func loadOrphans(ctx context.Context, tx pgx.Tx, tenantID int64) ([]OrphanActivity, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, COALESCE(responsavel_id, 0)
		   FROM crm.atividades
		  WHERE tenant_id = $1
		    AND lead_id IS NULL AND oportunidade_id IS NULL
		    AND conta_id IS NULL AND contato_id IS NULL
		  ORDER BY id ASC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("repair: load orphan activities: %w", err)
	}
	defer rows.Close()

	var out []OrphanActivity
	for rows.Next() {
		var a OrphanActivity
		if err := rows.Scan(&a.ID, &a.Responsible); err != nil {
			return nil, fmt.Errorf("repair: scan orphan activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func loadOpportunities(ctx context.Context, tx pgx.Tx, tenantID int64) ([]Opportunity, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, COALESCE(vendedor_id, 0), COALESCE(lead_id, 0), COALESCE(conta_id, 0)
		   FROM crm.oportunidades
		  WHERE tenant_id = $1
		  ORDER BY id ASC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("repair: load opportunities: %w", err)
	}
	defer rows.Close()

	var out []Opportunity
	for rows.Next() {
		var o Opportunity
		if err := rows.Scan(&o.ID, &o.SellerID, &o.LeadID, &o.AccountID); err != nil {
			return nil, fmt.Errorf("repair: scan opportunity: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func loadLeads(ctx context.Context, tx pgx.Tx, tenantID int64) ([]Lead, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, COALESCE(responsavel_id, 0), COALESCE(conta_id, 0), COALESCE(contato_id, 0)
		   FROM crm.leads
		  WHERE tenant_id = $1
		  ORDER BY id ASC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("repair: load leads: %w", err)
	}
	defer rows.Close()

	var out []Lead
	for rows.Next() {
		var l Lead
		if err := rows.Scan(&l.ID, &l.Responsible, &l.AccountID, &l.ContactID); err != nil {
			return nil, fmt.Errorf("repair: scan lead: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func loadContacts(ctx context.Context, tx pgx.Tx, tenantID int64) ([]Contact, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, COALESCE(conta_id, 0)
		   FROM crm.contatos
		  WHERE tenant_id = $1
		  ORDER BY id ASC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("repair: load contacts: %w", err)
	}
	defer rows.Close()

	var out []Contact
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.AccountID); err != nil {
			return nil, fmt.Errorf("repair: scan contact: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
