package handlers

import (
	"errors"
	"mime"
	"net/http"

	"github.com/Varun5711/contatos/internal/logger"
	"github.com/Varun5711/contatos/internal/middleware"
	usermodel "github.com/Varun5711/contatos/internal/models/user"
	"github.com/Varun5711/contatos/internal/service"
)

type AuthHandler struct {
	users *service.UserService
	log   *logger.Logger
}

func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{
		users: users,
		log:   logger.New("auth-handler"),
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req usermodel.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.log.Debug("Failed to decode request: %v", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.users.Register(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.log.Info("Registered user %s", resp.User.ID)
	respondJSON(w, http.StatusCreated, resp)
}

// Login accepts OAuth2 password-flow form fields (username, password) or a
// JSON body with email and senha.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req usermodel.LoginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid form body")
			return
		}
		req.Email = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	default:
		if err := decodeJSON(w, r, &req); err != nil {
			h.log.Debug("Failed to decode request: %v", err)
			WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	resp, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		WriteError(w, http.StatusUnprocessableEntity, vErr.Error())
	case errors.Is(err, service.ErrEmailTaken):
		WriteError(w, http.StatusConflict, "Email já cadastrado")
	case errors.Is(err, service.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		WriteError(w, http.StatusUnauthorized, "Email ou senha incorretos")
	default:
		h.log.Error("%s %s failed: %v", r.Method, r.URL.Path, err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
