package audit

import (
	"fmt"
	"slices"

	"github.com/forgeo/crm-audit-server/internal/crm"
)

// Category groups the criteria applied to one CRM object type
type Category string

const (
	// CategoryContact audits contacts
	CategoryContact Category = "contact"
	// CategoryCompany audits companies
	CategoryCompany Category = "company"
	// CategoryDeal audits deals
	CategoryDeal Category = "deal"
)

// Categories lists the categories in the order an audit processes them
var Categories = []Category{CategoryContact, CategoryCompany, CategoryDeal}

// ObjectType returns the CRM collection holding records of the category
func (c Category) ObjectType() crm.ObjectType {
	switch c {
	case CategoryContact:
		return crm.ObjectTypeContacts
	case CategoryCompany:
		return crm.ObjectTypeCompanies
	case CategoryDeal:
		return crm.ObjectTypeDeals
	default:
		return ""
	}
}

// ParseCategory converts a category name into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if c.ObjectType() == "" {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Severity ranks how much a violated criterion hurts data quality
type Severity string

// Severity levels
const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// RuleKind selects how a criterion decides a record is in violation
type RuleKind int

const (
	// RuleEmptiness flags records whose field is absent, null or empty
	RuleEmptiness RuleKind = iota
	// RuleStaleness flags records whose timestamp field is missing, unparsable or too old
	RuleStaleness
)

func (k RuleKind) String() string {
	switch k {
	case RuleEmptiness:
		return "emptiness"
	case RuleStaleness:
		return "staleness"
	default:
		return fmt.Sprintf("RuleKind(%d)", int(k))
	}
}

// Rule is the check behind a criterion. Only RuleStaleness uses the remaining fields.
type Rule struct {
	Kind RuleKind
	// MaxIdleDays is the number of whole days a timestamp may lag behind now
	MaxIdleDays int
	// ExactThreshold compares against now minus MaxIdleDays to the instant instead of
	// counting whole days, so a timestamp at the threshold already violates
	ExactThreshold bool
	// StageField and StagePrefix restrict the check to records whose stage starts with
	// the prefix. Other records are skipped but still counted in the total.
	StageField  string
	StagePrefix string
}

// Emptiness returns a RuleEmptiness rule
func Emptiness() Rule {
	return Rule{Kind: RuleEmptiness}
}

// Staleness returns a RuleStaleness rule allowing maxIdleDays of inactivity
func Staleness(maxIdleDays int) Rule {
	return Rule{Kind: RuleStaleness, MaxIdleDays: maxIdleDays}
}

// InStage restricts a staleness rule to records whose field starts with prefix
func (r Rule) InStage(field, prefix string) Rule {
	r.StageField = field
	r.StagePrefix = prefix
	return r
}

// Exact switches a staleness rule to an instant comparison against the threshold
func (r Rule) Exact() Rule {
	r.ExactThreshold = true
	return r
}

// Criterion is one data quality check
type Criterion struct {
	Key         string
	Category    Category
	Field       string
	Description string
	Severity    Severity
	Fixable     bool
	// FixMethod names the remediation applied to fixable criteria
	FixMethod string
	Rule      Rule
}

// Fix methods offered for fixable criteria
const (
	FixSetDefaultLifecycle = "set_default_lifecycle"
	FixSetDefaultNextStep  = "set_default_next_step"
)

// Catalog is an immutable table of criteria and display fields per category
type Catalog struct {
	criteria      map[Category][]Criterion
	displayFields map[Category][]string
}

// NewCatalog builds a catalog. Keys must be unique within a category.
func NewCatalog(criteria []Criterion, displayFields map[Category][]string) (*Catalog, error) {
	c := &Catalog{
		criteria:      make(map[Category][]Criterion),
		displayFields: make(map[Category][]string),
	}

	seen := make(map[Category]map[string]bool)
	for _, cr := range criteria {
		if cr.Category.ObjectType() == "" {
			return nil, fmt.Errorf("criterion %s: unknown category %q", cr.Key, cr.Category)
		}
		if cr.Key == "" || cr.Field == "" {
			return nil, fmt.Errorf("criterion in %s requires a key and a field", cr.Category)
		}
		if cr.Rule.Kind != RuleEmptiness && cr.Rule.Kind != RuleStaleness {
			return nil, fmt.Errorf("criterion %s: unsupported rule %s", cr.Key, cr.Rule.Kind)
		}
		if seen[cr.Category] == nil {
			seen[cr.Category] = make(map[string]bool)
		}
		if seen[cr.Category][cr.Key] {
			return nil, fmt.Errorf("duplicate criterion %s in %s", cr.Key, cr.Category)
		}
		seen[cr.Category][cr.Key] = true
		c.criteria[cr.Category] = append(c.criteria[cr.Category], cr)
	}

	for cat, fields := range displayFields {
		c.displayFields[cat] = slices.Clone(fields)
	}
	return c, nil
}

// Criteria returns the criteria of a category in declaration order
func (c *Catalog) Criteria(cat Category) []Criterion {
	return slices.Clone(c.criteria[cat])
}

// Lookup finds a criterion by category and key
func (c *Catalog) Lookup(cat Category, key string) (Criterion, bool) {
	for _, cr := range c.criteria[cat] {
		if cr.Key == key {
			return cr, true
		}
	}
	return Criterion{}, false
}

// DisplayFields returns the fields used to label records of a category
func (c *Catalog) DisplayFields(cat Category) []string {
	return slices.Clone(c.displayFields[cat])
}

// Fields returns the properties to request for a category: criteria fields, stage fields
// and display fields, in first-seen order without duplicates.
func (c *Catalog) Fields(cat Category) []string {
	var fields []string
	add := func(f string) {
		if f != "" && !slices.Contains(fields, f) {
			fields = append(fields, f)
		}
	}
	for _, cr := range c.criteria[cat] {
		add(cr.Field)
		add(cr.Rule.StageField)
	}
	for _, f := range c.displayFields[cat] {
		add(f)
	}
	return fields
}

const inProgressStagePrefix = "in_progress"

var defaultCriteria = []Criterion{
	{Key: "missing_firstname", Category: CategoryContact, Field: "firstname",
		Description: "Contacts without first name", Severity: SeverityMedium, Rule: Emptiness()},
	{Key: "missing_lastname", Category: CategoryContact, Field: "lastname",
		Description: "Contacts without last name", Severity: SeverityMedium, Rule: Emptiness()},
	{Key: "missing_phone", Category: CategoryContact, Field: "phone",
		Description: "Contacts without phone number", Severity: SeverityLow, Rule: Emptiness()},
	{Key: "missing_email", Category: CategoryContact, Field: "email",
		Description: "Contacts without email address", Severity: SeverityHigh, Rule: Emptiness()},
	{Key: "missing_owner", Category: CategoryContact, Field: "hubspot_owner_id",
		Description: "Contacts without owner", Severity: SeverityMedium, Rule: Emptiness()},
	{Key: "missing_jobtitle", Category: CategoryContact, Field: "jobtitle",
		Description: "Contacts without job title", Severity: SeverityLow, Rule: Emptiness()},
	{Key: "inactive_12months", Category: CategoryContact, Field: "last_activity_date",
		Description: "Contacts with no activity for 12 months", Severity: SeverityMedium, Rule: Staleness(365).Exact()},
	{Key: "missing_lifecycle", Category: CategoryContact, Field: "lifecyclestage",
		Description: "Contacts without lifecycle stage", Severity: SeverityMedium, Rule: Emptiness(),
		Fixable: true, FixMethod: FixSetDefaultLifecycle},
	{Key: "missing_lead_status", Category: CategoryContact, Field: "hs_lead_status",
		Description: "Contacts without lead status", Severity: SeverityLow, Rule: Emptiness()},
	{Key: "missing_linkedin", Category: CategoryContact, Field: "hs_linkedin_url",
		Description: "Contacts without LinkedIn profile", Severity: SeverityLow, Rule: Emptiness()},

	{Key: "missing_website", Category: CategoryCompany, Field: "website",
		Description: "Companies without website", Severity: SeverityMedium, Rule: Emptiness()},
	{Key: "missing_lifecycle", Category: CategoryCompany, Field: "lifecyclestage",
		Description: "Companies without lifecycle stage", Severity: SeverityMedium, Rule: Emptiness(),
		Fixable: true, FixMethod: FixSetDefaultLifecycle},
	{Key: "missing_owner", Category: CategoryCompany, Field: "hubspot_owner_id",
		Description: "Companies without owner", Severity: SeverityMedium, Rule: Emptiness()},
	{Key: "missing_size", Category: CategoryCompany, Field: "numberofemployees",
		Description: "Companies without employee count", Severity: SeverityLow, Rule: Emptiness()},
	{Key: "missing_industry", Category: CategoryCompany, Field: "industry",
		Description: "Companies without industry", Severity: SeverityLow, Rule: Emptiness()},

	{Key: "missing_next_step", Category: CategoryDeal, Field: "hs_next_step",
		Description: "Deals without next step", Severity: SeverityMedium, Rule: Emptiness(),
		Fixable: true, FixMethod: FixSetDefaultNextStep},
	{Key: "missing_amount", Category: CategoryDeal, Field: "amount",
		Description: "Deals without amount", Severity: SeverityHigh, Rule: Emptiness()},
	{Key: "inactive_15days", Category: CategoryDeal, Field: "notes_last_updated",
		Description: "Deals (in progress) with no activity for 15 days", Severity: SeverityHigh,
		Rule: Staleness(15).InStage("dealstage", inProgressStagePrefix)},
	{Key: "inactive_30days", Category: CategoryDeal, Field: "notes_last_updated",
		Description: "Deals (in progress) with no activity for 30 days", Severity: SeverityHigh,
		Rule: Staleness(30).InStage("dealstage", inProgressStagePrefix)},
	{Key: "inactive_90days", Category: CategoryDeal, Field: "notes_last_updated",
		Description: "Deals (in progress) with no activity for 90 days", Severity: SeverityHigh,
		Rule: Staleness(90).InStage("dealstage", inProgressStagePrefix)},
	{Key: "missing_source", Category: CategoryDeal, Field: "hs_object_source_label",
		Description: "Deals without source", Severity: SeverityLow, Rule: Emptiness()},
}

var defaultDisplayFields = map[Category][]string{
	CategoryContact: {"firstname", "lastname", "email"},
	CategoryCompany: {"name", "domain"},
	CategoryDeal:    {"dealname", "pipeline", "dealstage"},
}

// DefaultCatalog returns the built-in criteria for contacts, companies and deals
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultCriteria, defaultDisplayFields)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in catalog: %v", err))
	}
	return c
}
