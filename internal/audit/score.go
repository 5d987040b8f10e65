package audit

import (
	"encoding/json"
	"strings"

	"github.com/forgeo/crm-audit-server/internal/crm"
)

// Paging limits for issue details
const (
	DefaultDetailLimit = 50
	MaxDetailLimit     = 500
)

// CategoryScore summarizes the results of one category
type CategoryScore struct {
	Category   Category `json:"category"`
	Score      float64  `json:"score"`
	EmptyCount int      `json:"empty_count"`
	TotalCount int      `json:"total_count"`
	Criteria   int      `json:"criteria"`
}

// Scores is the quality summary of a run
type Scores struct {
	Overall    float64         `json:"overall"`
	Categories []CategoryScore `json:"categories"`
}

// ComputeScores derives per category and overall scores. A score is
// 100 - sum(empty)/sum(total)*100, or 100 when nothing was checked.
func ComputeScores(results []Result) Scores {
	byCategory := make(map[Category]*CategoryScore, len(Categories))
	for _, cat := range Categories {
		byCategory[cat] = &CategoryScore{Category: cat}
	}

	var empty, total int
	for _, r := range results {
		cs, ok := byCategory[r.Category]
		if !ok {
			continue
		}
		cs.EmptyCount += r.EmptyCount
		cs.TotalCount += r.TotalCount
		cs.Criteria++
		empty += r.EmptyCount
		total += r.TotalCount
	}

	scores := Scores{Overall: qualityScore(empty, total)}
	for _, cat := range Categories {
		cs := byCategory[cat]
		cs.Score = qualityScore(cs.EmptyCount, cs.TotalCount)
		scores.Categories = append(scores.Categories, *cs)
	}
	return scores
}

// ScoreCriteria scores freshly evaluated criteria of one category
func ScoreCriteria(scored []ScoredCriterion) float64 {
	var empty, total int
	for _, s := range scored {
		empty += s.EmptyCount
		total += s.TotalCount
	}
	return qualityScore(empty, total)
}

func qualityScore(empty, total int) float64 {
	if total == 0 {
		return 100
	}
	return round2(100 - float64(empty)/float64(total)*100)
}

// DecoratedResult is a result with its criterion attributes
type DecoratedResult struct {
	Result
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	Fixable     bool     `json:"fixable"`
	FixMethod   string   `json:"fix_method,omitempty"`
}

// Decorate attaches catalog attributes to results. Results whose criterion is no longer
// in the catalog keep empty attributes.
func Decorate(catalog *Catalog, results []Result) []DecoratedResult {
	decorated := make([]DecoratedResult, 0, len(results))
	for _, r := range results {
		d := DecoratedResult{Result: r}
		if cr, ok := catalog.Lookup(r.Category, r.CriterionKey); ok {
			d.Description = cr.Description
			d.Severity = cr.Severity
			d.Fixable = cr.Fixable
			d.FixMethod = cr.FixMethod
		}
		decorated = append(decorated, d)
	}
	return decorated
}

// NormalizePaging clamps page to at least 1 and limit to [1, MaxDetailLimit],
// defaulting limit to DefaultDetailLimit.
func NormalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultDetailLimit
	}
	if limit > MaxDetailLimit {
		limit = MaxDetailLimit
	}
	return page, limit
}

// IssueRecord is a violating record prepared for display
type IssueRecord struct {
	DetailItem
	DisplayName string `json:"display_name"`
}

// DetailPage is one page of violating records
type DetailPage struct {
	Category    Category      `json:"category"`
	Criterion   string        `json:"criterion"`
	Description string        `json:"description,omitempty"`
	Items       []IssueRecord `json:"items"`
	Page        int           `json:"page"`
	Limit       int           `json:"limit"`
	Total       int           `json:"total"`
	TotalPages  int           `json:"total_pages"`
}

// NewDetailPage assembles a page. Paging values must already be normalized.
func NewDetailPage(catalog *Catalog, cat Category, key string, items []DetailItem, page, limit, total int) DetailPage {
	dp := DetailPage{
		Category:   cat,
		Criterion:  key,
		Items:      make([]IssueRecord, 0, len(items)),
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}
	if cr, ok := catalog.Lookup(cat, key); ok {
		dp.Description = cr.Description
	}
	for _, item := range items {
		dp.Items = append(dp.Items, IssueRecord{
			DetailItem:  item,
			DisplayName: DisplayName(cat, payloadProperties(item.Payload), item.CrmID),
		})
	}
	return dp
}

// DisplayName labels a record: the full name of a contact, falling back to its email,
// and the name of a company or deal. The CRM id is used when nothing else is set.
func DisplayName(cat Category, props crm.Properties, crmID string) string {
	var name string
	switch cat {
	case CategoryContact:
		name = strings.TrimSpace(props.Get("firstname") + " " + props.Get("lastname"))
		if name == "" {
			name = props.Get("email")
		}
	case CategoryCompany:
		name = props.Get("name")
		if name == "" {
			name = props.Get("domain")
		}
	case CategoryDeal:
		name = props.Get("dealname")
	}
	if name == "" {
		return crmID
	}
	return name
}

func payloadProperties(payload json.RawMessage) crm.Properties {
	var props crm.Properties
	if len(payload) == 0 {
		return props
	}
	if err := json.Unmarshal(payload, &props); err != nil {
		return nil
	}
	return props
}
