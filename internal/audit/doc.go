// Package audit scores the data quality of CRM records.
//
// A Catalog declares the criteria checked for each category of record. Evaluate applies
// them to a fetched set of objects and produces one ScoredCriterion per criterion. The
// Orchestrator drives a full audit run: it fetches contacts, companies and deals in that
// order, evaluates them and persists results and violating records through a Store.
//
// Scores, decorated results and paged issue details are derived from persisted results
// by the helpers in score.go.
package audit
