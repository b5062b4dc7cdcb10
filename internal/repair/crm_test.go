package repair

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlanOrphanLinksPrefersOwnPipeline(t *testing.T) {
	orphans := []OrphanActivity{
		{ID: 1, Responsible: 10},
		{ID: 2, Responsible: 10},
		{ID: 3, Responsible: 10},
	}
	opps := []Opportunity{
		{ID: 100, SellerID: 10, LeadID: 200, AccountID: 300},
		{ID: 101, SellerID: 10, AccountID: 301},
		{ID: 102, SellerID: 99},
	}
	leads := []Lead{
		{ID: 200, Responsible: 10, AccountID: 300, ContactID: 400},
		{ID: 201, Responsible: 10, AccountID: 301},
	}
	contacts := []Contact{{ID: 401, AccountID: 301}}

	links := PlanOrphanLinks(orphans, opps, leads, contacts)
	require.Len(t, links, 3)

	// Orphans rotate over the responsible's two opportunities.
	require.Equal(t, int64(100), links[0].OpportunityID)
	require.Equal(t, int64(101), links[1].OpportunityID)
	require.Equal(t, int64(100), links[2].OpportunityID)

	// First orphan: lead and contact follow from the opportunity's lead.
	require.Equal(t, int64(200), links[0].LeadID)
	require.Equal(t, int64(300), links[0].AccountID)
	require.Equal(t, int64(400), links[0].ContactID)

	// Second orphan: opportunity has no lead, falls back to the
	// responsible's lead list, contact resolved through the account.
	require.Equal(t, int64(301), links[1].AccountID)
	require.NotZero(t, links[1].LeadID)
	require.Equal(t, int64(401), links[1].ContactID)
}

func TestPlanOrphanLinksFallsBackToAnyPipeline(t *testing.T) {
	orphans := []OrphanActivity{{ID: 1, Responsible: 55}, {ID: 2, Responsible: 55}}
	opps := []Opportunity{{ID: 100, SellerID: 1, AccountID: 300}, {ID: 101, SellerID: 2, AccountID: 301}}
	leads := []Lead{{ID: 200, Responsible: 3, AccountID: 300}}

	links := PlanOrphanLinks(orphans, opps, leads, nil)
	require.Equal(t, int64(100), links[0].OpportunityID)
	require.Equal(t, int64(101), links[1].OpportunityID)
	require.Equal(t, int64(200), links[0].LeadID)
}

func TestPlanOrphanLinksEmptyPipelines(t *testing.T) {
	orphans := []OrphanActivity{{ID: 7, Responsible: 1}}

	links := PlanOrphanLinks(orphans, nil, nil, nil)
	require.Len(t, links, 1)
	require.Zero(t, links[0].OpportunityID)
	require.Zero(t, links[0].LeadID)
	require.Zero(t, links[0].AccountID)
	require.Zero(t, links[0].ContactID)
}

func TestValidateSteps(t *testing.T) {
	require.NoError(t, ValidateSteps(AllSteps))
	require.NoError(t, ValidateSteps([]string{StepDriveCleanup}))
	require.Error(t, ValidateSteps([]string{"mailbox"}))
}
