package sync

import (
	"slices"

	"github.com/forgeo/crm-audit-server/internal/audit"
	"github.com/forgeo/crm-audit-server/internal/crm"
)

var contactProperties = []string{
	"firstname", "lastname", "email", "phone", "mobilephone", "fax", "company", "website",
	"address", "city", "state", "zip", "country", "jobtitle", "lifecyclestage", "hs_lead_status",
	"lastmodifieddate", "createdate", "hs_latest_meeting_activity", "notes_last_contacted",
	"engagements_last_meeting_booked", "hs_linkedin_url", "hs_analytics_source",
	"hs_analytics_source_data_1", "hs_latest_source", "hs_latest_source_data_1", "hs_lead_score",
	"hubspot_owner_id", "hs_persona", "hs_email_optout", "hs_email_bounce",
	"num_contacted_notes", "num_notes", "hs_lifecyclestage_lead_date",
	"hs_lifecyclestage_marketingqualifiedlead_date", "hs_lifecyclestage_salesqualifiedlead_date",
	"hs_lifecyclestage_customer_date", "hs_time_zone",
}

var companyProperties = []string{
	"name", "domain", "website", "website_url", "industry", "phone", "address", "address_2",
	"city", "state", "zip", "country", "timezone", "description", "founded_year",
	"numberofemployees", "annualrevenue", "total_money_raised", "is_public",
	"web_technologies", "lastmodifieddate", "createdate", "notes_last_contacted",
	"engagements_last_meeting_booked", "linkedin_company_page", "linkedinbio",
	"facebook_company_page", "twitterhandle", "hubspot_owner_id",
}

var dealProperties = []string{
	"dealname", "amount", "pipeline", "dealstage", "closedate", "createdate",
	"lastmodifieddate", "hs_lastmodifieddate", "dealtype", "description",
	"engagements_last_meeting_booked", "notes_last_contacted", "hubspot_owner_id",
	"hs_analytics_source", "deal_currency_code", "hs_projected_amount",
	"hs_deal_stage_probability", "days_to_close", "hs_closed_amount", "num_contacted_notes",
	"num_notes", "hs_deal_amount_calculation_preference",
}

// SnapshotProperties returns the properties stored for an object type: the snapshot list
// followed by any field the catalog audits that the list lacks.
func SnapshotProperties(objectType crm.ObjectType, catalog *audit.Catalog) []string {
	var base []string
	var cat audit.Category
	switch objectType {
	case crm.ObjectTypeContacts:
		base, cat = contactProperties, audit.CategoryContact
	case crm.ObjectTypeCompanies:
		base, cat = companyProperties, audit.CategoryCompany
	case crm.ObjectTypeDeals:
		base, cat = dealProperties, audit.CategoryDeal
	default:
		return nil
	}

	props := slices.Clone(base)
	if catalog == nil {
		return props
	}
	for _, f := range catalog.Fields(cat) {
		if !slices.Contains(props, f) {
			props = append(props, f)
		}
	}
	return props
}
