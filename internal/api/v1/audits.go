package v1

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/forgeo/crm-audit-server/internal/api/common"
	"github.com/forgeo/crm-audit-server/internal/audit"
	"github.com/forgeo/crm-audit-server/internal/service"
)

const maxRequestBody = 64 << 10

// startAudit handles POST /v1/users/{userID}/audits.
// The body is optional and carries the audit metadata.
func (routes *Routes) startAudit(w http.ResponseWriter, r *http.Request) {
	userID, err := common.GetAndValidateURLParam(r, "userID")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	var meta audit.Metadata
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&meta); err != nil && !errors.Is(err, io.EOF) {
		common.WriteErrorResponse(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	run, err := routes.service.StartAudit(r.Context(), userID, meta)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, run, http.StatusAccepted)
}

// listAudits handles GET /v1/users/{userID}/audits
func (routes *Routes) listAudits(w http.ResponseWriter, r *http.Request) {
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

	runs, err := routes.service.ListAudits(r.Context(), userID, opts...)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	if runs == nil {
		runs = []*audit.Run{}
	}
	common.WriteJSONResponse(w, map[string]any{"audits": runs}, http.StatusOK)
}

func (routes *Routes) getAudit(w http.ResponseWriter, r *http.Request) {
	id, err := common.GetUUIDParam(r, "auditID")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary, err := routes.service.GetAudit(r.Context(), id)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, summary, http.StatusOK)
}

func (routes *Routes) deleteAudit(w http.ResponseWriter, r *http.Request) {
	id, err := common.GetUUIDParam(r, "auditID")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := routes.service.DeleteAudit(r.Context(), id); err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (routes *Routes) getResults(w http.ResponseWriter, r *http.Request) {
	id, err := common.GetUUIDParam(r, "auditID")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	results, err := routes.service.GetAuditResults(r.Context(), id)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, map[string]any{"audit_id": id, "results": results}, http.StatusOK)
}

func (routes *Routes) getScores(w http.ResponseWriter, r *http.Request) {
	id, err := common.GetUUIDParam(r, "auditID")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	scores, err := routes.service.GetAuditScores(r.Context(), id)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, scores, http.StatusOK)
}

// getIssueDetails handles GET /v1/audits/{auditID}/results/{category}/{criterion}/items?page=&limit=
func (routes *Routes) getIssueDetails(w http.ResponseWriter, r *http.Request) {
	id, err := common.GetUUIDParam(r, "auditID")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	rawCategory, err := common.GetAndValidateURLParam(r, "category")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	cat, err := audit.ParseCategory(rawCategory)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	criterion, err := common.GetAndValidateURLParam(r, "criterion")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	var opts []service.Option[service.DetailOptions]
	for name, opt := range map[string]func(int) service.Option[service.DetailOptions]{
		"page":  service.WithPage,
		"limit": service.WithDetailLimit,
	} {
		if r.URL.Query().Get(name) == "" {
			continue
		}
		v, err := common.GetIntQuery(r, name)
		if err != nil {
			common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
			return
		}
		opts = append(opts, opt(v))
	}

	page, err := routes.service.GetIssueDetails(r.Context(), id, cat, criterion, opts...)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, page, http.StatusOK)
}

// exportAudit handles GET /v1/audits/{auditID}/export and streams an XLSX workbook
func (routes *Routes) exportAudit(w http.ResponseWriter, r *http.Request) {
	id, err := common.GetUUIDParam(r, "auditID")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	export, err := routes.service.ExportAudit(r.Context(), id)
	if err != nil {
		common.WriteServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(export.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Data)
}
