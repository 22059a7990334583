package adminapi

import (
	"encoding/json"
	"errors"
	"net/http"

	authlink "github.com/ebbhq/authlink"
	"github.com/ebbhq/authlink/middleware"
)

// AdminRole is the role required for every route except /api/users/me.
const AdminRole = "admin"

type handler struct {
	directory authlink.Directory
}

// New builds the admin HTTP surface over dir. Routes are guarded with the
// middleware package; the caller mounts the returned handler behind its
// own credential verification layer.
func New(dir authlink.Directory) http.Handler {
	h := &handler{directory: dir}

	admin := middleware.RequireRoles(AdminRole)
	authed := middleware.RequireAuthenticated()

	mux := http.NewServeMux()
	mux.Handle("GET /api/users", admin(http.HandlerFunc(h.list)))
	mux.Handle("POST /api/users", admin(http.HandlerFunc(h.create)))
	mux.Handle("GET /api/users/me", authed(http.HandlerFunc(h.me)))
	mux.Handle("GET /api/users/{email}", admin(http.HandlerFunc(h.get)))
	mux.Handle("PATCH /api/users/{email}", admin(http.HandlerFunc(h.patch)))
	mux.Handle("DELETE /api/users/{email}", admin(http.HandlerFunc(h.delete)))

	return mux
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.directory.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "directory unavailable")
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var user authlink.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil || user.Email == "" {
		writeError(w, http.StatusBadRequest, "invalid user payload")
		return
	}

	created, err := h.directory.Create(r.Context(), user)
	if err != nil {
		if errors.Is(err, authlink.ErrUserExists) {
			writeError(w, http.StatusConflict, "user already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "directory unavailable")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFromContext(r.Context())

	user, err := h.directory.GetByEmail(r.Context(), id.Subject)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "directory unavailable")
		return
	}
	if user == nil {
		// identity resolved earlier but the record is gone now
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	user, err := h.directory.GetByEmail(r.Context(), r.PathValue("email"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "directory unavailable")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *handler) patch(w http.ResponseWriter, r *http.Request) {
	var patch struct {
		Email *string           `json:"email"`
		Name  *string           `json:"name"`
		Roles *authlink.RoleSet `json:"roles"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid patch payload")
		return
	}

	updated, err := h.directory.Patch(r.Context(), r.PathValue("email"), authlink.UserPatch{
		Email: patch.Email,
		Name:  patch.Name,
		Roles: patch.Roles,
	})
	if err != nil {
		switch {
		case errors.Is(err, authlink.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		case errors.Is(err, authlink.ErrUserExists):
			writeError(w, http.StatusConflict, "user already exists")
		default:
			writeError(w, http.StatusInternalServerError, "directory unavailable")
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.directory.Delete(r.Context(), r.PathValue("email")); err != nil {
		if errors.Is(err, authlink.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "directory unavailable")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
