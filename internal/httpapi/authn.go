package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"officine.sn/internal/auth"
	"officine.sn/internal/command"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

var publicPaths = []string{
	"/v1/auth/login",
	"/metrics",
	"/healthz",
	"/readyz",
	"/v1/info",
	"/",
}

// withAuth resolves the bearer token to an actor for everything outside the
// public allowlist. The token itself stays in the context so logout can
// revoke it.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		res, err := a.dispatcher.Dispatch(r.Context(), command.ValidateSession{Token: token})
		if err != nil {
			if errors.Is(err, auth.ErrInvalidSession) || errors.Is(err, auth.ErrMissingField) {
				writeError(w, r, http.StatusUnauthorized, "invalid session")
				return
			}
			writeError(w, r, http.StatusInternalServerError, "authentication error")
			return
		}
		view := res.(auth.UserView)

		ctx := auth.ContextWithActor(r.Context(), auth.Actor{
			ID:       view.ID,
			Username: view.Username,
			FullName: view.FullName,
			Role:     view.Role,
		})
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole fetches the actor and checks the role predicate. A failed check
// answers 403 and returns false.
func (a *API) requireRole(w http.ResponseWriter, r *http.Request, allowed func(auth.Role) bool) (auth.Actor, bool) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return auth.Actor{}, false
	}
	if !allowed(actor.Role) {
		writeError(w, r, http.StatusForbidden, "insufficient role")
		return auth.Actor{}, false
	}
	return actor, true
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
