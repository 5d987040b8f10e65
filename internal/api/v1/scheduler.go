package v1

import (
	"net/http"

	"github.com/forgeo/crm-audit-server/internal/api/common"
)

func (routes *Routes) schedulerStatus(w http.ResponseWriter, r *http.Request) {
	st, err := routes.service.SchedulerStatus()
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, st, http.StatusOK)
}

// triggerScheduler requests a sweep. 202 when queued, 409 when the coordinator is not running.
func (routes *Routes) triggerScheduler(w http.ResponseWriter, r *http.Request) {
	triggered, err := routes.service.TriggerScheduler()
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	if !triggered {
		common.WriteErrorResponse(w, "scheduler is not running", http.StatusConflict)
		return
	}
	common.WriteJSONResponse(w, map[string]bool{"triggered": true}, http.StatusAccepted)
}
