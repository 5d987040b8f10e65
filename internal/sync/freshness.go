package sync

import (
	"time"

	"github.com/forgeo/crm-audit-server/internal/sync/state"
)

// Reason explains a freshness decision
type Reason string

// Freshness reasons
const (
	ReasonNoPreviousSync Reason = "no_previous_sync"
	ReasonIncompleteSync Reason = "incomplete_sync"
	ReasonVeryOld        Reason = "sync_very_old_24h"
	ReasonStale          Reason = "sync_stale_6h"
	ReasonDataFresh      Reason = "data_fresh"
)

// Quality buckets the age of the local snapshot
type Quality string

// Snapshot quality buckets
const (
	QualityNone       Quality = "none"
	QualityFresh      Quality = "fresh"
	QualityAcceptable Quality = "acceptable"
	QualityStale      Quality = "stale"
)

const (
	// VeryOldAfter is the age from which a snapshot is stale
	VeryOldAfter = 24 * time.Hour
	// StaleAfter is the age from which a snapshot should be refreshed
	StaleAfter = 6 * time.Hour
)

var recommendations = map[Reason]string{
	ReasonNoPreviousSync: "Run a first sync to build the local snapshot",
	ReasonIncompleteSync: "The last sync did not finish, run it again",
	ReasonVeryOld:        "Data is more than a day old, a sync is strongly recommended",
	ReasonStale:          "Data is more than 6 hours old, a sync is recommended",
	ReasonDataFresh:      "Data is up to date",
}

// Assessment is the outcome of a freshness check
type Assessment struct {
	ShouldSync bool   `json:"should_sync"`
	Reason     Reason `json:"reason"`
	// HoursSinceLast is nil when there is no completed sync to measure from
	HoursSinceLast *float64   `json:"hours_since_last_sync"`
	DataQuality    Quality    `json:"data_quality"`
	Recommendation string     `json:"recommendation"`
	LastSyncAt     *time.Time `json:"last_sync_at,omitempty"`
}

// Assess decides whether the snapshot behind latest needs a refresh at now.
// latest is the user's most recent completed run, or nil.
func Assess(now time.Time, latest *state.Run) Assessment {
	if latest == nil {
		return newAssessment(ReasonNoPreviousSync, QualityNone, nil, nil)
	}
	if latest.CompletedAt == nil {
		return newAssessment(ReasonIncompleteSync, QualityNone, nil, nil)
	}

	completedAt := latest.CompletedAt.UTC()
	age := now.UTC().Sub(completedAt)
	hours := age.Hours()

	switch {
	case age >= VeryOldAfter:
		return newAssessment(ReasonVeryOld, QualityStale, &hours, &completedAt)
	case age >= StaleAfter:
		return newAssessment(ReasonStale, QualityAcceptable, &hours, &completedAt)
	default:
		return newAssessment(ReasonDataFresh, QualityFresh, &hours, &completedAt)
	}
}

// ShouldSyncOnLogin reports whether a login should start a sync. An incomplete
// previous run alone does not.
func ShouldSyncOnLogin(a Assessment) bool {
	switch a.Reason {
	case ReasonNoPreviousSync, ReasonVeryOld, ReasonStale:
		return true
	default:
		return false
	}
}

func newAssessment(reason Reason, quality Quality, hours *float64, last *time.Time) Assessment {
	return Assessment{
		ShouldSync:     reason != ReasonDataFresh,
		Reason:         reason,
		HoursSinceLast: hours,
		DataQuality:    quality,
		Recommendation: recommendations[reason],
		LastSyncAt:     last,
	}
}
