package api

import (
	"net/http"

	"carrental/internal/auth"
	"carrental/internal/entities"
)

type UserHandler struct {
	Service UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{Service: svc}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req entities.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.Service.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entities.NewUserResponse(*user))
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req entities.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := h.Service.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Me returns the user behind the bearer token.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, entities.ErrorResponse{Error: "Unauthorized", Kind: "unauthorized", Code: http.StatusUnauthorized})
		return
	}
	id, err := claims.SubjectID()
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, entities.ErrorResponse{Error: "Invalid token subject", Kind: "unauthorized", Code: http.StatusUnauthorized})
		return
	}
	user, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.NewUserResponse(*user))
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.NewUserResponses(users))
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.NewUserResponse(*user))
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := h.Service.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, entities.ErrorResponse{Error: "User not found", Kind: "not_found", Code: http.StatusNotFound})
		return
	}
	writeJSON(w, http.StatusOK, entities.MessageResponse{Message: "User deleted successfully"})
}
