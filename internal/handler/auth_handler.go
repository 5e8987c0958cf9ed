package handler

import (
	"mime"
	"net/http"
	"strings"

	"campus/internal/model"
	"campus/internal/service"
	"campus/pkg/apierror"
)

const (
	grantRefreshToken      = "refresh_token"
	grantAuthorizationCode = "authorization_code"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func isFormRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return apierror.BadRequest("invalid form body", err.Error())
	}
	return nil
}

// Login accepts JSON or a password-grant style form where the email may be
// sent as "username".
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest

	if isFormRequest(r) {
		if err := parseForm(w, r); err != nil {
			writeError(w, err)
			return
		}
		payload.Email = r.PostForm.Get("email")
		if payload.Email == "" {
			payload.Email = r.PostForm.Get("username")
		}
		payload.Password = r.PostForm.Get("password")
		if err := validateStruct(&payload); err != nil {
			writeError(w, err)
			return
		}
	} else if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	session, err := h.service.Login(r.Context(), strings.TrimSpace(payload.Email), payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSession(w, session)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, user, nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	writeSuccess(w, http.StatusOK, p, nil)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var payload model.RefreshRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	session, err := h.service.Refresh(r.Context(), strings.TrimSpace(payload.RefreshToken))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSession(w, session)
}

// ForgotPassword answers 202 whether or not the email belongs to an account.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var payload model.ForgotPasswordRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), strings.TrimSpace(payload.Email)); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusAccepted, map[string]any{"requested": true}, nil)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload model.ResetPasswordRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.ResetPassword(r.Context(), payload.UserID, payload.Token, payload.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"reset": true}, nil)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var payload model.ChangePasswordRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), p.ID, payload.CurrentPassword, payload.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"changed": true}, nil)
}

// Authorize issues a short-lived one-time code redeemable at /token.
func (h *AuthHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	code, err := h.service.IssueAuthorizationCode(r.Context(), p)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, code, nil)
}

type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	RefreshToken string `json:"refresh_token"`
	Code         string `json:"code"`
}

// Token is the grant endpoint: refresh_token or authorization_code.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var payload tokenRequest

	if isFormRequest(r) {
		if err := parseForm(w, r); err != nil {
			writeError(w, err)
			return
		}
		payload.GrantType = r.PostForm.Get("grant_type")
		payload.RefreshToken = r.PostForm.Get("refresh_token")
		payload.Code = r.PostForm.Get("code")
	} else if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	var (
		session model.Session
		err     error
	)

	switch strings.TrimSpace(payload.GrantType) {
	case grantRefreshToken:
		token := strings.TrimSpace(payload.RefreshToken)
		if token == "" {
			writeError(w, apierror.BadRequest("refresh_token is required", "refresh_token"))
			return
		}
		session, err = h.service.Refresh(r.Context(), token)
	case grantAuthorizationCode:
		code := strings.TrimSpace(payload.Code)
		if code == "" {
			writeError(w, apierror.BadRequest("code is required", "code"))
			return
		}
		session, err = h.service.ExchangeCode(r.Context(), code)
	case "":
		writeError(w, apierror.BadRequest("grant_type is required", "grant_type"))
		return
	default:
		writeError(w, apierror.New("UNSUPPORTED_GRANT_TYPE", "unsupported grant_type", payload.GrantType, http.StatusBadRequest))
		return
	}

	if err != nil {
		writeError(w, err)
		return
	}

	writeSession(w, session)
}
