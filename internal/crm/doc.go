// Package crm reads objects from the CRM REST API.
//
// The API exposes every object type under GET {base}/crm/v3/objects/{type} and pages
// results with an opaque cursor returned in paging.next.after. A Fetcher follows that
// cursor until it is exhausted. Pages are requested strictly one after another and
// requests are never retried here; retrying is left to the scheduler.
//
// FetcherFactory binds a Fetcher to the stored credential of one user.
package crm
