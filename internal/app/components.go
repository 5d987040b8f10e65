package app

import (
	"github.com/forgeo/crm-audit-server/internal/db"
	"github.com/forgeo/crm-audit-server/internal/service"
	"github.com/forgeo/crm-audit-server/internal/sync/coordinator"
)

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// Coordinator runs the background auto-sync sweeps
	Coordinator coordinator.Coordinator

	// Service provides the audit and sync business logic
	Service service.Service

	// Database is the database connection
	Database *db.Connection
}
