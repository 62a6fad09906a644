package httpapi

import (
	"net/http"
	"strconv"

	"officine.sn/internal/audit"
	"officine.sn/internal/auth"
	"officine.sn/internal/command"
	"officine.sn/internal/export"
	"officine.sn/internal/grid"
	"officine.sn/internal/inspection"
	"officine.sn/internal/kpi"
)

func (a *API) handleGrids(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	res, err := a.dispatcher.Dispatch(r.Context(), command.ListGrids{})
	if err != nil {
		handleCoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res.([]grid.Summary))
}

func (a *API) handleGridResource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	id := r.URL.Path[len("/v1/grids/"):]
	if id == "" {
		writeError(w, r, http.StatusNotFound, "grid id is required")
		return
	}
	res, err := a.dispatcher.Dispatch(r.Context(), command.GetGrid{ID: id})
	if err != nil {
		handleCoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res.(grid.Grid))
}

func (a *API) listAll(r *http.Request) ([]inspection.Inspection, error) {
	res, err := a.dispatcher.Dispatch(r.Context(), command.ListInspections{})
	if err != nil {
		return nil, err
	}
	return res.([]inspection.Inspection), nil
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	inspections, err := a.listAll(r)
	if err != nil {
		handleCoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kpi.Aggregate(inspections))
}

func (a *API) handleTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	inspections, err := a.listAll(r)
	if err != nil {
		handleCoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, kpi.Trend(inspections))
}

func (a *API) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	inspections, err := a.listAll(r)
	if err != nil {
		handleCoreError(w, r, err)
		return
	}
	gridNames := make(map[string]string)
	for _, g := range a.grids.List() {
		gridNames[g.ID] = g.Name
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="inspections.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(export.CSV(inspections, gridNames)))
}

func (a *API) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	inspections, err := a.listAll(r)
	if err != nil {
		handleCoreError(w, r, err)
		return
	}
	responses := make(map[string][]inspection.Response, len(inspections))
	for _, insp := range inspections {
		res, err := a.dispatcher.Dispatch(r.Context(), command.GetResponses{InspectionID: insp.ID})
		if err != nil {
			handleCoreError(w, r, err)
			return
		}
		responses[insp.ID] = res.([]inspection.Response)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="inspections.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(export.JSON(inspections, responses)))
}

func (a *API) handleAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := a.requireRole(w, r, auth.IsAdminLike); !ok {
		return
	}
	q := r.URL.Query()
	f := audit.Filter{
		UserID:     q.Get("user_id"),
		Action:     q.Get("action"),
		EntityType: q.Get("entity_type"),
		EntityID:   q.Get("entity_id"),
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Offset = n
		}
	}
	res, err := a.dispatcher.Dispatch(r.Context(), command.QueryAudit{Filter: f})
	if err != nil {
		handleCoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res.([]audit.Entry))
}

func (a *API) handleAuditCount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if _, ok := a.requireRole(w, r, auth.IsAdminLike); !ok {
		return
	}
	res, err := a.dispatcher.Dispatch(r.Context(), command.CountAudit{})
	if err != nil {
		handleCoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": res.(int)})
}
