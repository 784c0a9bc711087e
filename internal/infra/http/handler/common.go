package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskhive/api/internal/infra/http/middleware"
	"github.com/taskhive/api/pkg/apierror"
	"github.com/taskhive/api/pkg/domain/shared"
)

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// urlParamID parses a URL parameter as a shared.ID. It writes a 400
// response and returns false when the parameter is not a valid UUID.
func urlParamID(w http.ResponseWriter, r *http.Request, name string) (shared.ID, bool) {
	id, err := shared.IDFromString(chi.URLParam(r, name))
	if err != nil {
		apierror.BadRequest("invalid " + name).WriteJSON(w)
		return shared.ID{}, false
	}
	return id, true
}

// authenticatedUserID extracts the caller's ID from the request context.
// It writes a 401 response and returns false when the context carries no
// valid identity, which means the auth middleware did not run.
func authenticatedUserID(w http.ResponseWriter, r *http.Request) (shared.ID, bool) {
	id, err := shared.IDFromString(middleware.GetUserID(r.Context()))
	if err != nil {
		apierror.Unauthorized("authentication required").WriteJSON(w)
		return shared.ID{}, false
	}
	return id, true
}
