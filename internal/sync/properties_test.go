package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgeo/crm-audit-server/internal/audit"
	"github.com/forgeo/crm-audit-server/internal/crm"
)

func TestSnapshotProperties_SupersetOfAuditFields(t *testing.T) {
	t.Parallel()

	catalog := audit.DefaultCatalog()
	for _, cat := range audit.Categories {
		t.Run(string(cat), func(t *testing.T) {
			t.Parallel()

			props := SnapshotProperties(cat.ObjectType(), catalog)
			assert.Subset(t, props, catalog.Fields(cat))

			seen := make(map[string]bool, len(props))
			for _, p := range props {
				assert.False(t, seen[p], "duplicate property %s", p)
				seen[p] = true
			}
		})
	}
}

func TestSnapshotProperties(t *testing.T) {
	t.Parallel()

	assert.Contains(t, SnapshotProperties(crm.ObjectTypeContacts, nil), "hs_email_bounce")
	assert.NotContains(t, SnapshotProperties(crm.ObjectTypeDeals, nil), "hs_next_step")
	assert.Contains(t, SnapshotProperties(crm.ObjectTypeDeals, audit.DefaultCatalog()), "hs_next_step")
	assert.Nil(t, SnapshotProperties("tickets", nil))

	// The shared list is never modified
	first := SnapshotProperties(crm.ObjectTypeCompanies, audit.DefaultCatalog())
	second := SnapshotProperties(crm.ObjectTypeCompanies, nil)
	assert.Greater(t, len(first), len(second))
	assert.Len(t, second, len(companyProperties))
}
