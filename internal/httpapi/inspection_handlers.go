package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"officine.sn/internal/audit"
	"officine.sn/internal/auth"
	"officine.sn/internal/command"
	"officine.sn/internal/export"
	"officine.sn/internal/inspection"
	"officine.sn/internal/stream"
)

func (a *API) handleInspectionsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		actor, ok := auth.ActorFromContext(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		q := r.URL.Query()
		mine := q.Get("mine") == "true" || q.Get("mine") == "1"
		// Inspectors only ever see their own inspections.
		if actor.Role == auth.RoleInspector {
			mine = true
		}
		res, err := a.dispatcher.Dispatch(r.Context(), command.ListInspections{
			MineOnly: mine,
			Status:   inspection.Status(q.Get("status")),
		})
		if err != nil {
			handleCoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res.([]inspection.Inspection))
	case http.MethodPost:
		actor, ok := a.requireRole(w, r, auth.CanCreateInspections)
		if !ok {
			return
		}
		var req inspection.CreateRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		res, err := a.dispatcher.Dispatch(r.Context(), command.CreateInspection{CreateRequest: req})
		if err != nil {
			handleCoreError(w, r, err)
			return
		}
		id := res.(string)
		created, err := a.dispatcher.Dispatch(r.Context(), command.GetInspection{ID: id})
		if err != nil {
			handleCoreError(w, r, err)
			return
		}
		insp := created.(inspection.Inspection)
		a.publish(stream.Event{
			Kind:          stream.KindCreated,
			InspectionID:  insp.ID,
			Establishment: insp.Establishment,
			Status:        insp.Status,
			Actor:         actor.Username,
		})
		writeJSON(w, http.StatusCreated, insp)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleInspectionResource serves /v1/inspections/{id} and its subresources
// responses, status and report.
func (a *API) handleInspectionResource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/inspections/")
	parts := strings.Split(rest, "/")
	if len(parts) == 0 || parts[0] == "" {
		writeError(w, r, http.StatusNotFound, "inspection id is required")
		return
	}
	id := parts[0]

	if len(parts) == 2 {
		switch parts[1] {
		case "responses":
			a.handleResponses(w, r, id)
		case "status":
			a.handleSetStatus(w, r, id)
		case "report":
			a.handleReport(w, r, id)
		default:
			http.NotFound(w, r)
		}
		return
	}
	if len(parts) != 1 {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		res, err := a.dispatcher.Dispatch(r.Context(), command.GetInspection{ID: id})
		if err != nil {
			handleCoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res.(inspection.Inspection))
	case http.MethodPatch:
		actor, ok := auth.ActorFromContext(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		var req inspection.CreateRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if _, err := a.dispatcher.Dispatch(r.Context(), command.UpdateInspectionMeta{InspectionID: id, CreateRequest: req}); err != nil {
			handleCoreError(w, r, err)
			return
		}
		a.publish(stream.Event{
			Kind:          stream.KindMetaUpdated,
			InspectionID:  id,
			Establishment: req.Establishment,
			Actor:         actor.Username,
		})
		updated, err := a.dispatcher.Dispatch(r.Context(), command.GetInspection{ID: id})
		if err != nil {
			handleCoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated.(inspection.Inspection))
	case http.MethodDelete:
		actor, ok := a.requireRole(w, r, auth.IsAdminLike)
		if !ok {
			return
		}
		res, err := a.dispatcher.Dispatch(r.Context(), command.GetInspection{ID: id})
		if err != nil {
			handleCoreError(w, r, err)
			return
		}
		insp := res.(inspection.Inspection)
		if _, err := a.dispatcher.Dispatch(r.Context(), command.DeleteInspection{InspectionID: id}); err != nil {
			handleCoreError(w, r, err)
			return
		}
		a.recordDeletion(r, actor, insp)
		a.publish(stream.Event{
			Kind:          stream.KindDeleted,
			InspectionID:  id,
			Establishment: insp.Establishment,
			Actor:         actor.Username,
		})
		writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}

func (a *API) handleResponses(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		res, err := a.dispatcher.Dispatch(r.Context(), command.GetResponses{InspectionID: id})
		if err != nil {
			handleCoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res.([]inspection.Response))
	case http.MethodPost:
		actor, ok := auth.ActorFromContext(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		var req struct {
			CriterionID int    `json:"criterion_id"`
			Conforme    *bool  `json:"conforme"`
			Observation string `json:"observation"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if _, err := a.dispatcher.Dispatch(r.Context(), command.SaveResponse{
			InspectionID: id,
			CriterionID:  req.CriterionID,
			Conforme:     req.Conforme,
			Observation:  req.Observation,
		}); err != nil {
			handleCoreError(w, r, err)
			return
		}
		a.publish(stream.Event{
			Kind:         stream.KindResponseSaved,
			InspectionID: id,
			Actor:        actor.Username,
		})
		updated, err := a.dispatcher.Dispatch(r.Context(), command.GetInspection{ID: id})
		if err != nil {
			handleCoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, updated.(inspection.Inspection).Progress)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleSetStatus(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	var req struct {
		Status inspection.Status `json:"status"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	// Validation is reserved to the elevated roles.
	if req.Status == inspection.StatusValidated && !auth.CanValidateInspections(actor.Role) {
		writeError(w, r, http.StatusForbidden, "insufficient role")
		return
	}
	if _, err := a.dispatcher.Dispatch(r.Context(), command.SetInspectionStatus{InspectionID: id, Status: req.Status}); err != nil {
		handleCoreError(w, r, err)
		return
	}
	a.publish(stream.Event{
		Kind:         stream.KindStatusChanged,
		InspectionID: id,
		Status:       req.Status,
		Actor:        actor.Username,
	})
	updated, err := a.dispatcher.Dispatch(r.Context(), command.GetInspection{ID: id})
	if err != nil {
		handleCoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated.(inspection.Inspection))
}

func (a *API) handleReport(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	res, err := a.dispatcher.Dispatch(r.Context(), command.GetInspection{ID: id})
	if err != nil {
		handleCoreError(w, r, err)
		return
	}
	insp := res.(inspection.Inspection)
	rres, err := a.dispatcher.Dispatch(r.Context(), command.GetResponses{InspectionID: id})
	if err != nil {
		handleCoreError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(export.Report(&insp, rres.([]inspection.Response))))
}

func (a *API) publish(evt stream.Event) {
	if a.events == nil {
		return
	}
	a.events.Publish(evt)
}

// recordDeletion writes the DELETE_INSPECTION trail entry. Deletion is the one
// mutation audited here rather than in the service, because by the time the
// service returns the record is gone.
func (a *API) recordDeletion(r *http.Request, actor auth.Actor, insp inspection.Inspection) {
	if a.trail == nil {
		return
	}
	details := fmt.Sprintf(`{"establishment":%q,"status":%q}`, insp.Establishment, insp.Status)
	_ = a.trail.Append(r.Context(), audit.Entry{
		Timestamp:  auth.Timestamp(time.Now()),
		UserID:     actor.ID,
		Username:   actor.Username,
		Action:     "DELETE_INSPECTION",
		EntityType: "inspection",
		EntityID:   insp.ID,
		Details:    details,
	})
	_ = audit.Emit(r.Context(), "inspection.delete", map[string]any{
		"inspection_id": insp.ID,
		"actor":         actor.Username,
	})
}
