package httpapi

import (
	"net/http"
	"strings"

	"officine.sn/internal/auth"
	"officine.sn/internal/command"
)

func (a *API) handleUsersCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if _, ok := a.requireRole(w, r, auth.CanManageUsers); !ok {
			return
		}
		res, err := a.dispatcher.Dispatch(r.Context(), command.ListUsers{})
		if err != nil {
			handleCoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res.([]auth.UserView))
	case http.MethodPost:
		if _, ok := a.requireRole(w, r, func(role auth.Role) bool { return role == auth.RoleAdmin }); !ok {
			return
		}
		var req auth.CreateUserRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		res, err := a.dispatcher.Dispatch(r.Context(), command.CreateUser{CreateUserRequest: req})
		if err != nil {
			handleCoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, res.(auth.UserView))
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleUserResource serves /v1/users/{id} and /v1/users/{id}/password.
func (a *API) handleUserResource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/users/")
	parts := strings.Split(rest, "/")
	if len(parts) == 0 || parts[0] == "" {
		writeError(w, r, http.StatusNotFound, "user id is required")
		return
	}
	userID := parts[0]

	if len(parts) == 2 && parts[1] == "password" {
		a.handleChangePassword(w, r, userID)
		return
	}
	if len(parts) != 1 {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		if _, ok := a.requireRole(w, r, func(role auth.Role) bool { return role == auth.RoleAdmin }); !ok {
			return
		}
		var upd auth.UserUpdate
		if err := decodeJSON(w, r, &upd); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		res, err := a.dispatcher.Dispatch(r.Context(), command.UpdateUser{UserID: userID, Update: upd})
		if err != nil {
			handleCoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res.(auth.UserView))
	case http.MethodDelete:
		if _, ok := a.requireRole(w, r, func(role auth.Role) bool { return role == auth.RoleAdmin }); !ok {
			return
		}
		if _, err := a.dispatcher.Dispatch(r.Context(), command.DeleteUser{UserID: userID}); err != nil {
			handleCoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "deactivated"})
	default:
		methodNotAllowed(w, r, http.MethodPatch, http.MethodDelete)
	}
}

func (a *API) handleChangePassword(w http.ResponseWriter, r *http.Request, userID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if _, ok := a.requireRole(w, r, func(role auth.Role) bool { return role == auth.RoleAdmin }); !ok {
		return
	}
	var req struct {
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if _, err := a.dispatcher.Dispatch(r.Context(), command.ChangePassword{UserID: userID, NewPassword: req.NewPassword}); err != nil {
		handleCoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "password_changed"})
}
