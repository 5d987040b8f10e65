package audit

import (
	"math"
	"strings"
	"time"

	"github.com/forgeo/crm-audit-server/internal/crm"
)

// ScoredCriterion is the outcome of one criterion over a set of objects
type ScoredCriterion struct {
	Criterion  Criterion
	Field      string
	EmptyCount int
	TotalCount int
	Percentage float64
	Violations []crm.Object
}

// Evaluate applies each criterion to every object. An object may violate several
// criteria. TotalCount is always len(objects), including records a stage-restricted
// rule skipped.
func Evaluate(now time.Time, objects []crm.Object, criteria []Criterion) []ScoredCriterion {
	now = now.UTC()
	scored := make([]ScoredCriterion, 0, len(criteria))

	for _, cr := range criteria {
		var violations []crm.Object
		for _, obj := range objects {
			if violates(now, obj, cr) {
				violations = append(violations, obj)
			}
		}
		scored = append(scored, ScoredCriterion{
			Criterion:  cr,
			Field:      cr.Field,
			EmptyCount: len(violations),
			TotalCount: len(objects),
			Percentage: percentage(len(violations), len(objects)),
			Violations: violations,
		})
	}
	return scored
}

func violates(now time.Time, obj crm.Object, cr Criterion) bool {
	switch cr.Rule.Kind {
	case RuleEmptiness:
		return obj.Properties.IsEmpty(cr.Field)
	case RuleStaleness:
		return isStale(now, obj, cr.Rule, cr.Field)
	default:
		return false
	}
}

func isStale(now time.Time, obj crm.Object, rule Rule, field string) bool {
	if rule.StagePrefix != "" {
		stage := obj.Properties.Get(rule.StageField)
		if stage == "" || !strings.HasPrefix(stage, rule.StagePrefix) {
			return false
		}
	}

	t, ok := ParseTimestamp(obj.Properties.Get(field))
	if !ok {
		return true
	}
	if rule.ExactThreshold {
		return !t.After(now.Add(-time.Duration(rule.MaxIdleDays) * 24 * time.Hour))
	}
	idleDays := int(now.Sub(t).Hours() / 24)
	return idleDays > rule.MaxIdleDays
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
