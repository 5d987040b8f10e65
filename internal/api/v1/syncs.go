package v1

import (
	"net/http"

	"github.com/forgeo/crm-audit-server/internal/api/common"
	"github.com/forgeo/crm-audit-server/internal/sync/state"
)

// startSync handles POST /v1/users/{userID}/syncs
func (routes *Routes) startSync(w http.ResponseWriter, r *http.Request) {
	userID, err := common.GetAndValidateURLParam(r, "userID")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	run, err := routes.service.StartSync(r.Context(), userID)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, run, http.StatusAccepted)
}

func (routes *Routes) listSyncs(w http.ResponseWriter, r *http.Request) {
	userID, err := common.GetAndValidateURLParam(r, "userID")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	opts, err := listOptions(r)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	runs, err := routes.service.ListSyncs(r.Context(), userID, opts...)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	if runs == nil {
		runs = []*state.Run{}
	}
	common.WriteJSONResponse(w, map[string]any{"syncs": runs}, http.StatusOK)
}

// latestSync handles GET /v1/users/{userID}/syncs/latest. 404 when the user never completed a sync.
func (routes *Routes) latestSync(w http.ResponseWriter, r *http.Request) {
	userID, err := common.GetAndValidateURLParam(r, "userID")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	run, err := routes.service.LatestSync(r.Context(), userID)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, run, http.StatusOK)
}

func (routes *Routes) freshness(w http.ResponseWriter, r *http.Request) {
	userID, err := common.GetAndValidateURLParam(r, "userID")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	assessment, err := routes.service.Freshness(r.Context(), userID)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, assessment, http.StatusOK)
}

// login handles POST /v1/users/{userID}/login
func (routes *Routes) login(w http.ResponseWriter, r *http.Request) {
	userID, err := common.GetAndValidateURLParam(r, "userID")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := routes.service.Login(r.Context(), userID)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, result, http.StatusOK)
}
