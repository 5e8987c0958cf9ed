package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"campus/internal/model"
	"campus/internal/service"
	"campus/pkg/apierror"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(service *service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, apierror.BadRequest("id is required", "id"))
		return "", false
	}
	return id, true
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	q, err := parseListQuery(r, "email", "is_super_admin", "is_disabled")
	if err != nil {
		writeError(w, err)
		return
	}
	filter := model.UserFilter{Email: q.get("email"), Page: q.page}
	if filter.IsSuperAdmin, err = q.boolPtr("is_super_admin"); err != nil {
		writeError(w, err)
		return
	}
	if filter.IsDisabled, err = q.boolPtr("is_disabled"); err != nil {
		writeError(w, err)
		return
	}

	users, total, err := h.service.List(r.Context(), p, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.ListData[model.User]{Items: users}, model.NewMeta(q.page, total))
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var payload model.CreateUserRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.Create(r.Context(), p, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, user, nil)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.service.Get(r.Context(), p, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var payload model.UpdateUserRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.Update(r.Context(), p, id, payload.Patch())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), p, id); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true}, nil)
}
